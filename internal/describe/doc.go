// Package describe turns language items into text for people: plain-text
// documentation from XML doc comments, tooltip content and overload order.
package describe
