// Package signing implements the request signing schemes of the supported
// machine translation services: the HMAC-SHA1 canonical query signature
// used by Alibaba Cloud and the salted MD5 signature used by Baidu.
package signing
