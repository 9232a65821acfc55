// Package spa computes the topocentric position of the Sun for an observer
// using the NREL Solar Position Algorithm (Reda and Andreas, 2004/2008).
//
// A calculation runs through a fixed chain of stages:
//
//	input validation
//	  -> Julian day and ephemeris time scales
//	  -> Earth heliocentric L, B, R from periodic series
//	  -> geocentric longitude/latitude, nutation, obliquity
//	  -> apparent longitude, sidereal time, right ascension, declination
//	  -> parallax (topocentric right ascension, declination, hour angle)
//	  -> elevation with refraction, zenith, azimuth, surface incidence
//	  -> equation of time, sunrise, transit and sunset
//
// Calculate is a pure function of its Input. It holds no shared state, so
// independent calculations may run concurrently without coordination.
package spa
