package config

// Catalog backends
const (
	CatalogTypeMetastore = "metastore"
	CatalogTypeIceberg   = "iceberg"
)

// Defaults applied by LoadDefaultConfig
const (
	// Hive resolves unqualified table names against this database
	DEFAULT_DATABASE = "default"

	DEFAULT_METASTORE_PATH = "./data/metastore.db"
	DEFAULT_LOG_PATH       = "logs/hivebridge.log"
	DEFAULT_HDFS_USER      = "hive"
)
