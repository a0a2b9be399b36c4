package repository

import (
	"io/fs"
	"strings"
	"testing"

	"takeout_backend/migrations"
)

func TestStagingInsertCarriesWireDefaults(t *testing.T) {
	query := strings.ToLower(insertLeadQuery)

	requiredFragments := []string{
		"insert into leads",
		"captured_at, staged_at",
		"now(), now()",
		"false, $9, 0, 4",
		"returning id, staged_at",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected staging insert fragment %q to be present", fragment)
		}
	}
}

func TestDedupLookupKeysOnPlatformPair(t *testing.T) {
	query := strings.ToLower(leadExistsQuery)

	requiredFragments := []string{
		"where platform = $1",
		"platform_lead_id = $2",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected dedup lookup fragment %q to be present", fragment)
		}
	}
}

func TestDefaultCampaignResolverTakesFirstRow(t *testing.T) {
	query := strings.ToLower(resolveDefaultCampaignQuery)

	requiredFragments := []string{
		"from campaigns",
		"where platform = $1",
		"limit 1",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected campaign resolver fragment %q to be present", fragment)
		}
	}
}

func TestSessionLookupScopedToPlatform(t *testing.T) {
	query := strings.ToLower(findLeadBySessionQuery)

	requiredFragments := []string{
		"where platform = $1",
		"metadata ->> 'session_id' = $2",
		"order by staged_at desc",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected session lookup fragment %q to be present", fragment)
		}
	}
}

func TestUndeliveredScanIsOldestFirst(t *testing.T) {
	query := strings.ToLower(listUndeliveredQuery)

	requiredFragments := []string{
		"where delivered_at is null",
		"order by staged_at asc",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected undelivered scan fragment %q to be present", fragment)
		}
	}
}

// The unique index closes the dedup race the application-level check leaves
// open, and the trigger is what makes notifications commit-gated. Both live
// in the migrations, so guard them there.
func TestMigrationsEnforceDedupAndCommitGatedNotify(t *testing.T) {
	var ddl strings.Builder
	err := fs.WalkDir(migrations.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}
		content, readErr := fs.ReadFile(migrations.FS, path)
		if readErr != nil {
			return readErr
		}
		ddl.Write(content)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to read embedded migrations: %v", err)
	}

	sql := strings.ToLower(ddl.String())
	requiredFragments := []string{
		"create unique index uq_leads_platform_lead on leads (platform, platform_lead_id)",
		"after insert on leads",
		"pg_notify('new_lead', new.id::text)",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(sql, fragment) {
			t.Fatalf("expected migration fragment %q to be present", fragment)
		}
	}
}
