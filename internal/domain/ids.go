package domain

// ProjectID is an internal identifier for a project record.
type ProjectID string
