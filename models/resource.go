package models

// Resource is implemented by every user owned entity.
type Resource interface {
	PrimaryKey() uint
	Owner() uint
	// SetKeys overwrites the storage assigned id and the owning user id.
	SetKeys(id, userID uint)
}

// Feature is one highlighted feature of a project.
type Feature struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TechStackGroup lists the technologies a project uses in one category.
type TechStackGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

func nonNil[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}
