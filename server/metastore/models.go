package metastore

import (
	"time"

	"github.com/uptrace/bun"
)

// Hive table types
const (
	ManagedTable  = "MANAGED_TABLE"
	ExternalTable = "EXTERNAL_TABLE"
	VirtualView   = "VIRTUAL_VIEW"
)

// TimeAuditable provides common timestamp fields for all entities
type TimeAuditable struct {
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Database is a Hive database (a container of tables)
type Database struct {
	bun.BaseModel `bun:"table:databases,alias:d"`
	TimeAuditable `bun:",inherit"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Name        string `bun:"name,notnull,unique" json:"name"`
	Description string `bun:"description" json:"description"`
	Location    string `bun:"location" json:"location"`
}

// Table holds the storage descriptor of a Hive table
type Table struct {
	bun.BaseModel `bun:"table:tables,alias:t"`
	TimeAuditable `bun:",inherit"`

	ID          int64             `bun:"id,pk,autoincrement" json:"id"`
	DatabaseID  int64             `bun:"database_id,notnull" json:"database_id"`
	Name        string            `bun:"name,notnull" json:"name"`
	TableType   string            `bun:"table_type,notnull" json:"table_type"`
	InputFormat string            `bun:"input_format" json:"input_format"`
	SerdeLib    string            `bun:"serde_lib" json:"serde_lib"`
	SerdeParams map[string]string `bun:"serde_params,type:json" json:"serde_params"`
	Params      map[string]string `bun:"params,type:json" json:"params"`
	Location    string            `bun:"location" json:"location"`

}

// Column is a table column or, when PartitionKey is set, a partition key
type Column struct {
	bun.BaseModel `bun:"table:columns,alias:c"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	TableID      int64  `bun:"table_id,notnull" json:"table_id"`
	Name         string `bun:"name,notnull" json:"name"`
	Type         string `bun:"type,notnull" json:"type"`
	Comment      string `bun:"comment" json:"comment"`
	Position     int    `bun:"position,notnull" json:"position"`
	PartitionKey bool   `bun:"partition_key,notnull,default:false" json:"partition_key"`
}

// Partition is one partition of a table. Empty storage fields fall back to
// the table's storage descriptor.
type Partition struct {
	bun.BaseModel `bun:"table:partitions,alias:p"`
	TimeAuditable `bun:",inherit"`

	ID          int64             `bun:"id,pk,autoincrement" json:"id"`
	TableID     int64             `bun:"table_id,notnull" json:"table_id"`
	Values      []string          `bun:"partition_values,type:json" json:"values"`
	Location    string            `bun:"location" json:"location"`
	InputFormat string            `bun:"input_format" json:"input_format"`
	SerdeLib    string            `bun:"serde_lib" json:"serde_lib"`
	SerdeParams map[string]string `bun:"serde_params,type:json" json:"serde_params"`
}

// SchemaVersion records applied migrations
type SchemaVersion struct {
	bun.BaseModel `bun:"table:schema_versions"`

	Version   int       `bun:"version,pk" json:"version"`
	Name      string    `bun:"name,notnull" json:"name"`
	AppliedAt time.Time `bun:"applied_at,nullzero,notnull,default:current_timestamp" json:"applied_at"`
}
