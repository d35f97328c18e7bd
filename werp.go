/*
Copyright © 2026 the WERP authors.
This file is part of WERP.

WERP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

WERP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with WERP.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package werp calculates water-resource reliability and resilience
// indicators from hydrological allocation timeseries.
//
// Reliability is the percentage of timesteps at which a value meets or
// exceeds a threshold. Resilience is inversely related to the mean length
// of the below-threshold runs that the system recovers from, and is 100 when
// no such runs occur. Both indicators can optionally be calculated from a
// single observation per year, taken on a fixed calendar cutoff date.
//
// Reading data from NetCDF files is handled by package ncdata.
package werp

// Version gives the version number.
const Version = "0.1.0"
