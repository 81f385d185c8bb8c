// Package capital defines the capital information agent: its output record,
// its role instruction and how the record is printed.
package capital
