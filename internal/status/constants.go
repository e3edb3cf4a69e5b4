package status

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state, before the first cycle settles.
const HealthUnknown uint16 = 0

// HealthOK represents a cycle that completed every step.
const HealthOK uint16 = 1

// HealthError represents a cycle that aborted at some step.
const HealthError uint16 = 2

// ---- MESSAGES ----

// MessageInitializing is reported once at start.
const MessageInitializing = "Initializing"
