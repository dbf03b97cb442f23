// Package obsrepo persists the observations recorded against orders. The order
// lifecycle only touches them when an order is purged.
package obsrepo

import (
	"time"

	"github.com/google/uuid"
)

// ObservationDTO is a clinical observation row. OrderID is the uuid of the
// order the observation was recorded for, if any.
type ObservationDTO struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	UUID         uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	PersonID     uuid.UUID  `gorm:"type:uuid;index"`
	ConceptID    uuid.UUID  `gorm:"type:uuid"`
	OrderID      *uuid.UUID `gorm:"type:uuid;index"`
	ObsDatetime  time.Time
	ValueNumeric *float64
	ValueText    string
}

// TableName specifies the database table name for observations.
func (ObservationDTO) TableName() string {
	return "observations"
}
