package connection

import (
	"errors"
	"fmt"
	"strings"

	g "github.com/gosnmp/gosnmp"
)

// TransportError covers everything below the agent: timeouts, unreachable
// networks, undecodable responses. Its message is the engine's, verbatim.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AgentStatusError is a response carrying a non-zero error-status.
type AgentStatusError struct {
	Op     string
	Status g.SNMPError
	Index  uint8
	Oid    string
}

func (e *AgentStatusError) Error() string {
	oid := e.Oid
	if oid == "" {
		oid = "?"
	}
	return fmt.Sprintf("%s at %s", e.Status.String(), oid)
}

var errEmptyResponse = errors.New("empty response from agent")

// CheckResult classifies the outcome of one request. requested is the OID list
// that was sent; it names the offending binding when the response omits it.
func CheckResult(op string, requested []string, result *g.SnmpPacket, err error) error {
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if result == nil {
		return &TransportError{Op: op, Err: errEmptyResponse}
	}
	if result.Error == g.NoError {
		return nil
	}

	statusErr := &AgentStatusError{Op: op, Status: result.Error, Index: result.ErrorIndex}
	idx := int(result.ErrorIndex)
	switch {
	case idx == 0:
	case idx <= len(result.Variables):
		statusErr.Oid = strings.TrimPrefix(result.Variables[idx-1].Name, ".")
	case idx <= len(requested):
		statusErr.Oid = strings.TrimPrefix(requested[idx-1], ".")
	}
	return statusErr
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func IsAgentStatusError(err error) bool {
	var se *AgentStatusError
	return errors.As(err, &se)
}
