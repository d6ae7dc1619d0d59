// README: Common geographic and identifier value objects used across modules.
package types

// ID identifies a transport unit (usually its plate).
type ID string

// Point is a WGS 84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
