package datamapper

import "github.com/igorpocta/data-mapper-sub003/internal/descriptor"

// StructTag is the struct tag consumed by the mapper.
const StructTag = descriptor.TagName

// Environment variable names consumed by LoadConfigFromEnvironment.
const (
	EnvStrict            = "DMAP_STRICT"
	EnvDefaultTimezone   = "DMAP_DEFAULT_TIMEZONE"
	EnvDefaultDateFormat = "DMAP_DEFAULT_DATE_FORMAT"
)
