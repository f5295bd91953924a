package routing

// Availability is the outcome of a manufacturer availability check. The
// reason always names the manufacturer (or states why it could not be
// identified) so it can be reused verbatim in audit trails.
type Availability struct {
	Available bool
	Reason    string
}
