package domain

// ToolDescriptor is an immutable catalog entry describing a selectable tool.
type ToolDescriptor struct {
	// ID is stable and used as a foreign key by teams.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	Description string `json:"description"`

	// ClassName is the implementation identifier emitted in rendered configurations.
	ClassName string `json:"class_name"`

	// Category groups related tools for display.
	Category string `json:"category"`
}
