package common

// AuthorizationHeader is the HTTP header carrying the bearer access token
// on authenticated requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix is prepended to the access token in the Authorization header.
const BearerPrefix = "Bearer "

// DeviceIDHeader carries the per-install client identifier so the server can
// correlate concurrent sessions of the same account.
const DeviceIDHeader = "X-Device-Id"
