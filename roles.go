package console

// Permission grants access to one platform resource, either unconditionally
// ("allow") or through a custom rule expression.
type Permission struct {
	ID        int    `json:"id,omitempty"`
	Resource  string `json:"resource"`
	Value     string `json:"value"`
	RoleID    int    `json:"role_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
	DeletedAt string `json:"deleted_at,omitempty"`
}

// PermissionAllow is the literal value that grants a resource without a rule.
const PermissionAllow = "allow"

// Role groups users with a set of resource permissions. Root roles bypass
// permission checks entirely.
type Role struct {
	ID          uint64   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Root        bool     `json:"root,omitempty"`
	Rule        string   `json:"rule,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	Users       any      `json:"users,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
	DeletedAt   string   `json:"deleted_at,omitempty"`
}

// RoleSaveInput is the payload for creating or updating a role. The $add and
// $clear buckets carry user-relation deltas and are only meaningful on update.
type RoleSaveInput struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Root        bool                    `json:"root,omitempty"`
	Permissions []string                `json:"permissions,omitempty"`
	Add         map[string][]ContentRef `json:"$add,omitempty"`
	Clear       map[string][]ContentRef `json:"$clear,omitempty"`
}

// Resource is one node of the platform resource tree used by the permission
// editor. Groups contain nested resources; whitelisted resources are granted
// to everyone and are hidden from the editor.
type Resource struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Group     bool       `json:"group,omitempty"`
	Whitelist bool       `json:"whitelist,omitempty"`
	Resources []Resource `json:"resources,omitempty"`
}

// User is a platform account record.
type User struct {
	ID         uint64 `json:"id,omitempty"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	Provider   string `json:"provider,omitempty"`
	ProviderID string `json:"provider_id,omitempty"`
	Active     bool   `json:"active,omitempty"`
	RoleID     uint64 `json:"role_id,omitempty"`
	Roles      []Role `json:"roles,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
	DeletedAt  string `json:"deleted_at,omitempty"`
}

// Media is an uploaded file record.
type Media struct {
	ID        uint64 `json:"id,omitempty"`
	URL       string `json:"url"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	Disk      string `json:"disk,omitempty"`
	Path      string `json:"path,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
	DeletedAt string `json:"deleted_at,omitempty"`
}

// UploadResult separates the files the platform stored from those it rejected.
type UploadResult struct {
	Success []Media `json:"success"`
	Error   []Media `json:"error"`
}
