// Package main provides the entry point for the stopverifage CLI.
//
// stopverifage renders a directory of websites that impose age or identity
// verification, either from a local preview server or as a static site.
//
// Usage:
//
//	stopverifage serve
//	stopverifage build -o public
//	stopverifage list --category "Réseaux sociaux"
//
// See --help for all available options.
package main

func main() {
	Execute()
}
