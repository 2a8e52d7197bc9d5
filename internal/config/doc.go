// Package config owns the dowel.json document: AI provider accounts,
// translation accounts with their monthly usage counters, AI profiles and
// app settings. All access goes through a single Store which serializes
// every read-modify-write.
package config
