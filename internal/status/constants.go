// internal/status/constants.go
package status

// Link status codes. They are exported through metrics and logs and
// MUST NOT change meaning.

// ---- HEALTH CODES ----

// HealthUnknown represents the state before the first transaction.
const HealthUnknown uint16 = 0

// HealthOK represents a responsive power supply.
const HealthOK uint16 = 1

// HealthError represents a failed last transaction.
const HealthError uint16 = 2

// ---- ERROR CODES ----

// ErrCodeNone means the last transaction succeeded.
const ErrCodeNone uint16 = 0

// ErrCodeGeneric is used for errors without a more specific code.
const ErrCodeGeneric uint16 = 1

// ErrCodeTimeout means the slave did not answer before the deadline.
const ErrCodeTimeout uint16 = 2

// ErrCodeIO means the serial channel itself failed.
const ErrCodeIO uint16 = 3

// ErrCodeRequest means the request could not be framed.
const ErrCodeRequest uint16 = 4

// ---- LIMITS ----

// SecondsInErrorMax is where the error duration counter saturates.
const SecondsInErrorMax uint16 = 65535
