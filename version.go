package datamapper

// Version is the library version, set at release time.
const Version = "0.3.0"
