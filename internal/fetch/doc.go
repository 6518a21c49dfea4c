// Package fetch provides the upstream HTTP layer for the athletics site.
//
// Every request goes through a retrying client with a per-request timeout and a fixed
// User-Agent. Non-2xx responses are reported as *StatusError so callers can treat them
// as absence of data. CachingFetcher layers a page cache on top so repeated requests
// for the same schedule page or text export are served locally.
package fetch
