// Package tableio loads collar, survey, interval and planned-hole tables
// from delimited text files and Excel workbooks into domain.RawTable.
package tableio
