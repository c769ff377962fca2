package ch

import (
	"context"
	"testing"
)

// TestDisconnected covers the zero value client: every operation must
// fail loudly instead of panicking on a nil connection
func TestDisconnected(t *testing.T) {
	t.Parallel()

	cl := &CH{}
	ctx := context.Background()

	if err := cl.Insert(ctx, "kills", [][]any{{1}}); err == nil {
		t.Fatalf("Insert on disconnected client expected error, got nil")
	}
	if _, err := cl.Query(ctx, "SELECT 1"); err == nil {
		t.Fatalf("Query on disconnected client expected error, got nil")
	}
	if err := cl.Ping(ctx); err == nil {
		t.Fatalf("Ping on disconnected client expected error, got nil")
	}
	if err := cl.Close(); err != nil {
		t.Fatalf("Close on disconnected client returned error: %v", err)
	}
}

// TestClose_NilReceiver mirrors how defer chains may run after a failed Open
func TestClose_NilReceiver(t *testing.T) {
	t.Parallel()

	var cl *CH
	if err := cl.Close(); err != nil {
		t.Fatalf("Close on nil receiver returned error: %v", err)
	}
}

func TestBuildClientInfo_Products(t *testing.T) {
	t.Parallel()

	info := BuildClientInfo("poller", "v1.2.3")
	if len(info.Products) != 5 {
		t.Fatalf("Products len = %d, want 5", len(info.Products))
	}
	if info.Products[0].Name != "killfeed" || info.Products[0].Version != "v1.2.3" {
		t.Fatalf("product[0] = %+v, want killfeed v1.2.3", info.Products[0])
	}
	if info.Products[1].Name != "role" || info.Products[1].Version != "poller" {
		t.Fatalf("product[1] = %+v, want role poller", info.Products[1])
	}
}
