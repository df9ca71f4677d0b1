package factory

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/openshift-assisted/ccx-deadletter/internal/common"
	"github.com/openshift-assisted/ccx-deadletter/internal/config"
)

const (
	valkeyClientName  = "ccx-deadletter"
	valkeyDialTimeout = 5 * time.Second
)

// CreateValkeyClient connects to the dedup index. Client side caching is disabled:
// EXISTS must always reflect the last SET of another consumer.
func CreateValkeyClient(ctx context.Context, conf config.Valkey) (valkey.Client, common.CloseFunc, error) {
	ret, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:  []string{conf.URL},
		SelectDB:     conf.DB,
		Username:     conf.Creds.Username,
		Password:     conf.Creds.Password,
		ClientName:   valkeyClientName,
		DisableCache: true,
		Dialer:       net.Dialer{Timeout: valkeyDialTimeout},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	err = ret.Do(ctx, ret.B().Ping().Build()).Error()
	if err != nil {
		ret.Close()

		return nil, nil, fmt.Errorf("failed to ping valkey: %w", err)
	}

	shutdown := func(context.Context) error {
		ret.Close()

		return nil
	}

	return ret, shutdown, nil
}
