// Package resolve provides reference Resolver adapters.
//
// URLResolver implements the canonical URL-style resolution rules: relative
// specifiers ("./x", "../x", "/x") resolve against the referrer, fully
// qualified specifiers normalize in place, and bare specifiers fail. A
// MapResolver can be layered in front of it to give bare specifiers a home,
// import-map style.
package resolve
