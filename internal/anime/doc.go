// Package anime defines the library record, season, and date types shared by
// the season reconciliation engine and its collaborators.
//
// Season values know their canonical data file name and the calendar interval
// they cover. Date values carry partial precision so a record whose start
// month is unknown can be told apart from one that is simply out of range.
package anime
