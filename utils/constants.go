package utils

// AuthCachePrefix is the key prefix for cached auth token hashes.
const AuthCachePrefix = "auth:"

// KYCSessionPrefix is the key prefix for consent-session records.
const KYCSessionPrefix = "kycsess:"

// KYCSessionLockPrefix is the key prefix for per-session poller ownership locks.
const KYCSessionLockPrefix = "kycsess:lock:"
