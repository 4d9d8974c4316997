package audit

// Action constants for audit events.
const (
	// Token actions
	ActionTokenInitialized = "token.initialized"
	ActionTokenMinted      = "token.minted"
	ActionTokenBurned      = "token.burned"
	ActionTokenTransferred = "token.transferred"
	ActionTokenDebited     = "token.debited"

	// Proposal actions
	ActionProposalCreated  = "proposal.created"
	ActionProposalApproved = "proposal.approved"
)

// Resource constants for audit events.
const (
	ResourceToken    = "token"
	ResourceProposal = "proposal"
)

// Category constants for audit events.
const (
	CategorySupply     = "supply"
	CategoryTransfer   = "transfer"
	CategoryGovernance = "governance"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
