package service

const (
	// Unit conversions
	MetersPerMile = 1609.34
	FeetPerMeter  = 3.28084

	// Pagination limits
	RecentActivitiesLimit = 30
)
