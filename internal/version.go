package internal

// Version is the dowel release version.
const Version = "0.3.0"
