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

package ncdata

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when a dataset file does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ncdata: file %s not found: %v", e.Path, e.Err)
}

// FormatError is returned when a file cannot be interpreted as a
// NetCDF classic dataset.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ncdata: %s is not a readable NetCDF classic (CDF-1 or CDF-2) file: %v", e.Path, e.Err)
}

// VariableNotFoundError is returned when a requested variable is not in
// the dataset.
type VariableNotFoundError struct {
	Name string
	// Available holds the names of the variables that are in the dataset.
	Available []string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("ncdata: variable %s not found in dataset. Available variables: [%s]",
		e.Name, strings.Join(e.Available, ", "))
}

// LocationError is returned when a location is requested for a variable
// that has no latitude and longitude dimensions.
type LocationError struct {
	Variable   string
	Dimensions []string
	Reason     string
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("ncdata: cannot select a location for variable %s with dimensions %v: %s",
		e.Variable, e.Dimensions, e.Reason)
}

// MissingTimeAxisError is returned when a time-based operation is
// requested on a dataset without a time coordinate.
type MissingTimeAxisError struct {
	Path   string
	Reason string
}

func (e *MissingTimeAxisError) Error() string {
	return fmt.Sprintf("ncdata: %s has no usable time coordinate: %s", e.Path, e.Reason)
}
