package domain

// MenuItem is one entry of the back-office navigation tree. An empty
// RequiredRoles means the entry is visible to any role.
type MenuItem struct {
	Key           string     `json:"key" yaml:"key"`
	Label         string     `json:"label" yaml:"label"`
	Path          string     `json:"path,omitempty" yaml:"path"`
	Icon          string     `json:"icon,omitempty" yaml:"icon"`
	RequiredRoles []Role     `json:"required_roles,omitempty" yaml:"roles"`
	Children      []MenuItem `json:"children,omitempty" yaml:"children"`
}
