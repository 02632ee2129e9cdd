package if_entry

import (
	"context"
	"errors"

	"network-rrd/connection"
	model_entry "network-rrd/models/if_entry"
	model_snmp "network-rrd/models/snmp"
	"network-rrd/pkg/oids"

	"go.uber.org/zap"
)

var ErrEmptyResponse = errors.New("get response carried no variable bindings")

// IECollector reads single ifEntry cells of a known interface.
type IECollector struct {
	Connection connection.Session
	logger     *zap.Logger
}

func NewIECollector(conn connection.Session, logger *zap.Logger) *IECollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IECollector{
		Connection: conn,
		logger:     logger,
	}
}

// Get issues one GET for column of interface index and returns the value of the
// first binding.
func (iec *IECollector) Get(ctx context.Context, index string, column oids.Column) (string, error) {
	oid, err := oids.Build(column, index)
	if err != nil {
		return "", err
	}
	return iec.get(ctx, oid)
}

func (iec *IECollector) get(ctx context.Context, oid string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	requested := []string{oid}
	result, err := iec.Connection.Get(requested)
	if err := connection.CheckResult("get", requested, result, err); err != nil {
		return "", err
	}
	if len(result.Variables) == 0 {
		return "", &connection.TransportError{Op: "get", Err: ErrEmptyResponse}
	}

	_, value := model_snmp.GetSNMPValue(result.Variables[0])
	iec.logger.Debug("snmp get",
		zap.String("oid", oid),
		zap.String("column", string(oids.ColumnOf(oid))),
		zap.String("value", value),
	)
	return value, nil
}

// Collect reads description, inbound and outbound octets of index, one request
// each, stopping at the first error.
func (iec *IECollector) Collect(ctx context.Context, index string) (model_entry.InterfaceRecord, error) {
	record := model_entry.InterfaceRecord{Index: index}
	if err := record.SetOids(model_entry.QueryColumns); err != nil {
		return record, err
	}

	for _, column := range model_entry.QueryColumns {
		value, err := iec.get(ctx, record.Oids[column])
		if err != nil {
			return record, err
		}
		record.SetValue(column, value)
	}
	return record, nil
}
