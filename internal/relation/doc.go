// Package relation holds the support matrix of the 13 temporal relations
// over the field shapes of package field.
//
// For an interval field [s, e] and reference period [s1, e1] every relation
// is defined. A point field p with fallback f supports only After, Before,
// During, Begins and Ends; each rule compares p when it is set and f when
// it is null. All other pairs are unsupported and Lookup reports false.
package relation
