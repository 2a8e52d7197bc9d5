// Package translation calls the machine translation services (Alibaba Cloud
// and Baidu) with their own request signing, maps their error payloads onto
// apperr kinds and keeps the per-account usage counters up to date.
package translation
