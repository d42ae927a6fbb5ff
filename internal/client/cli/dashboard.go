package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/scanpack/internal/common"
)

// WhoAmI prints the signed-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.store.Snapshot()
	if snap.User == nil {
		printf(a.out, "Not signed in\n")
		return common.ErrUnauthorized
	}

	u := snap.User
	printf(a.out, "id: %s\ncontact: %s\ntype: %s\n", u.ID, u.UserContact, u.UserType)
	if u.VendorID != "" {
		printf(a.out, "vendor: %s\n", u.VendorID)
	}
	return nil
}

// Get fetches a protected resource and pretty-prints it. A 401 signs the
// user out through the transport's unauthorized handler.
func (a *App) Get(ctx context.Context, path string) error {
	raw, err := a.dataService.Fetch(ctx, path)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			printf(a.out, "Session expired, please login again\n")
		case errors.Is(err, common.ErrUnavailable):
			printf(a.out, "Server unavailable, try again later\n")
		default:
			printf(a.out, "Request failed: %s\n", err)
		}
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	buf.WriteByte('\n')
	_, err = a.out.Write(buf.Bytes())
	return err
}

// Status prints connectivity, gate state and the current route.
func (a *App) Status(ctx context.Context) error {
	mode := a.currentMode()
	if mode == "" {
		mode = "unknown"
	}
	printf(a.out, "mode: %s\nstate: %s\nroute: %s\n", mode, a.gate.State(), a.currentRoute())
	return nil
}
