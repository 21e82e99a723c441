package models

import "github.com/paulmach/orb"

// PointType is the GeoJSON type stored for every address location.
const PointType = "Point"

// Address is a named, geolocated address record.
type Address struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Location GeoPoint `json:"location"`
}

// GeoPoint is a GeoJSON point. Coordinates are ordered [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoPoint builds a point from latitude and longitude, storing longitude first.
func NewGeoPoint(latitude, longitude float64) GeoPoint {
	return GeoPoint{
		Type:        PointType,
		Coordinates: []float64{longitude, latitude},
	}
}

// Longitude returns the first coordinate, or 0 for a malformed point.
func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[0]
}

// Latitude returns the second coordinate, or 0 for a malformed point.
func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Orb converts the point into an orb.Point, which shares the [lon, lat] order.
func (p GeoPoint) Orb() orb.Point {
	return orb.Point{p.Longitude(), p.Latitude()}
}

// AddressInput is the flat request shape accepted by create and update.
// A zero latitude or longitude counts as missing.
type AddressInput struct {
	Name      string  `json:"name" validate:"required"`
	Address   string  `json:"address" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
}

// NearQuery describes a proximity search. MaxDistance is in meters.
type NearQuery struct {
	Latitude    float64 `json:"latitude" validate:"required"`
	Longitude   float64 `json:"longitude" validate:"required"`
	MaxDistance float64 `json:"distance" validate:"required"`
}

// Point returns the query origin as a GeoJSON point.
func (q NearQuery) Point() GeoPoint {
	return NewGeoPoint(q.Latitude, q.Longitude)
}
