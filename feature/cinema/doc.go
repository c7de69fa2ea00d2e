// Package cinema synchronizes the program of a cinema exposed by a JSON
// listings API.
//
// Each movie becomes an offer identified as "{movie}%{venue}%CINEMA" and each of
// its upcoming shows a stock identified as "{offer}#{show}/{showtime}". Cancelled
// and deleted shows are ignored, and movies without shows produce an empty
// batch. Posters are downloaded when images are enabled.
package cinema
