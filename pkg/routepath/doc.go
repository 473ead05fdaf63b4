// Package routepath normalises navigation paths before they reach the route
// table, and handles the base path every route is mounted under.
package routepath
