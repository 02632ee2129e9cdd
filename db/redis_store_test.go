package db

import (
	"context"
	"errors"
	"testing"
	"time"

	model_entry "network-rrd/models/if_entry"
	model_device "network-rrd/models/network_device"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDevice() *model_device.NetworkDevice {
	return &model_device.NetworkDevice{
		Hostname: "192.0.2.1",
		Port:     161,
		Time:     time.Unix(1700000000, 0),
		Interfaces: []model_entry.InterfaceRecord{
			{Index: "1", Description: "eth0", InOctets: "100", OutOctets: "200"},
			{Index: "2", Description: "eth1", InOctets: "300", OutOctets: "400"},
		},
	}
}

func TestRedisStore_Write(t *testing.T) {
	client, mock := redismock.NewClientMock()
	defer client.Close()

	store := NewRedisStore(client, "ifstat", time.Hour)

	mock.ExpectHSet("ifstat:192.0.2.1:1", "descr", "eth0", "in", "100", "out", "200", "time", int64(1700000000)).SetVal(4)
	mock.ExpectExpire("ifstat:192.0.2.1:1", time.Hour).SetVal(true)
	mock.ExpectHSet("ifstat:192.0.2.1:2", "descr", "eth1", "in", "300", "out", "400", "time", int64(1700000000)).SetVal(4)
	mock.ExpectExpire("ifstat:192.0.2.1:2", time.Hour).SetVal(true)

	require.NoError(t, store.Write(context.Background(), testDevice()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_NoTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	defer client.Close()

	store := NewRedisStore(client, "ifstat", 0)
	mock.ExpectHSet("ifstat:192.0.2.1:1", "descr", "eth0", "in", "100", "out", "200", "time", int64(1700000000)).SetVal(4)

	device := testDevice()
	require.NoError(t, store.Save(context.Background(), device.Hostname, device.Interfaces[0], device.Time))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_WriteError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	defer client.Close()

	store := NewRedisStore(client, "ifstat", 0)
	mock.ExpectHSet("ifstat:192.0.2.1:1", "descr", "eth0", "in", "100", "out", "200", "time", int64(1700000000)).
		SetErr(errors.New("READONLY You can't write against a read only replica."))

	err := store.Write(context.Background(), testDevice())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ifstat:192.0.2.1:1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Key(t *testing.T) {
	assert.Equal(t, "ifstat:router:10101", NewRedisStore(nil, "ifstat", 0).Key("router", "10101"))
	assert.Equal(t, "redis", NewRedisStore(nil, "ifstat", 0).Name())
}
