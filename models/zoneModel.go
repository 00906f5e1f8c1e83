package models

import (
	"github.com/tindora/tindora-api/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Zone is an administrator-defined delivery polygon. Orders store a snapshot
// of the zone id they were placed against; the zone itself stays editable.
type Zone struct {
	gorm.Model
	Name     string                            `json:"name"`
	IsActive bool                              `json:"isActive"`
	Polygon  datatypes.JSONSlice[utils.Vertex] `json:"polygon"`
}

// Contains reports whether the point lies inside the zone polygon.
func (z *Zone) Contains(p GeoPoint) bool {
	return utils.PointInPolygon(p.Lat, p.Lng, z.Polygon)
}
