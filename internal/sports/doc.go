// Package sports holds the static registry of varsity programs published by the
// athletics site.
//
// Each SportLink pairs the display label with the URL slug the site uses and the
// program's base URL. The registry is built once and never mutated, so it is safe to
// share between goroutines.
package sports
