package resources

import "encoding/json"

// Repository is a container of schemas.
type Repository struct {
	RepositoryID string `json:"repository_id"`
	Description  string `json:"description"`
	IsActive     bool   `json:"is_active"`
	InsertDate   string `json:"insert_date"`
	LastUpdate   string `json:"last_update"`
}

// SchemaField describes one typed field of a schema.
type SchemaField struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed,omitempty"`
}

// Schema defines the structure documents in it conform to.
type Schema struct {
	SchemaID     string `json:"schema_id"`
	RepositoryID string `json:"repository_id"`
	Description  string `json:"description"`
	IsActive     bool   `json:"is_active"`
	InsertDate   string `json:"insert_date"`
	LastUpdate   string `json:"last_update"`
	Structure    struct {
		Fields []SchemaField `json:"fields"`
	} `json:"structure"`
}

// Document is a schema-conforming record. Content stays raw: its shape
// is defined by the schema, not by this client.
type Document struct {
	DocumentID   string          `json:"document_id"`
	SchemaID     string          `json:"schema_id"`
	RepositoryID string          `json:"repository_id"`
	IsActive     bool            `json:"is_active"`
	InsertDate   string          `json:"insert_date"`
	LastUpdate   string          `json:"last_update"`
	Content      json.RawMessage `json:"content,omitempty"`
}

// Collection is a named set of documents across schemas.
type Collection struct {
	CollectionID string `json:"collection_id"`
	Name         string `json:"name"`
	IsActive     bool   `json:"is_active"`
	InsertDate   string `json:"insert_date"`
	LastUpdate   string `json:"last_update"`
}

// User is an account within the customer tenant.
type User struct {
	UserID     string          `json:"user_id"`
	Username   string          `json:"username"`
	IsActive   bool            `json:"is_active"`
	InsertDate string          `json:"insert_date"`
	LastUpdate string          `json:"last_update"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
	Groups     []string        `json:"groups,omitempty"`
}

// Group is a named set of users sharing permissions.
type Group struct {
	GroupID    string          `json:"group_id"`
	GroupName  string          `json:"group_name"`
	IsActive   bool            `json:"is_active"`
	InsertDate string          `json:"insert_date"`
	LastUpdate string          `json:"last_update"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
}

// PermissionGrant describes the data access granted on a schema.
type PermissionGrant struct {
	OwnData bool `json:"own_data"`
	AllData bool `json:"all_data"`
	Insert  bool `json:"insert"`
}
