package types

// JSONMap stores an arbitrary JSON object inside a JSONB column. Fields using
// it rely on gorm's json serializer.
type JSONMap map[string]any
