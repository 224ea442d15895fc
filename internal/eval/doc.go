// Package eval scores pipeline output against labelled examples.
//
// Joins are compared by canonical key only: lower-cased join type and the
// sorted, lower-cased source objects. Keys, conditions and styles do not
// participate.
package eval
