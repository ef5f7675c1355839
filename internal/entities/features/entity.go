package features

import "github.com/KirkDiggler/rpg-toolkit/core"

// EntityTypeFeature is the rpg-toolkit entity type of a feature record
const EntityTypeFeature = "feature"

// FeatureEntity wraps a FeatureRecord to implement core.Entity
type FeatureEntity struct {
	*FeatureRecord
}

// GetID returns the feature's stable id
func (f *FeatureEntity) GetID() string {
	return f.ID
}

// GetType returns the entity type for rpg-toolkit
func (f *FeatureEntity) GetType() string {
	return EntityTypeFeature
}

// AsEntity wraps the record for rpg-toolkit consumers
func (f *FeatureRecord) AsEntity() core.Entity {
	return &FeatureEntity{FeatureRecord: f}
}

var _ core.Entity = (*FeatureEntity)(nil)
