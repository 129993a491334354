// Package service maps external tracking service names, as they appear in
// season data files, to stable service identifiers and records which service
// the application is currently synchronizing against.
package service
