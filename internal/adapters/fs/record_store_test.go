package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

func newTestRecordStore(t *testing.T) *RecordStoreAdapter {
	t.Helper()
	cfg := &config.RuntimeConfig{
		RecordsDir: filepath.Join(t.TempDir(), "deployments"),
	}
	return NewRecordStoreAdapter(cfg)
}

func testRecord(network string, contracts ...string) *models.DeploymentRecord {
	deployed := make([]models.DeployedContract, len(contracts))
	for i, name := range contracts {
		deployed[i] = models.DeployedContract{
			Name:    name,
			Address: common.HexToAddress(fmt.Sprintf("0x%040x", i+1)),
		}
	}
	deployer := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	return models.NewDeploymentRecord(network, deployer, deployed, at)
}

func TestRecordStore_LoadMissing(t *testing.T) {
	store := newTestRecordStore(t)

	_, err := store.Load(context.Background(), "sepolia")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_SaveAndLoad(t *testing.T) {
	store := newTestRecordStore(t)
	ctx := context.Background()

	record := testRecord("sepolia", "VotingToken", "Timelock", "Governor")
	require.NoError(t, store.Save(ctx, record))

	loaded, err := store.Load(ctx, "sepolia")
	require.NoError(t, err)
	assert.Equal(t, record.Network, loaded.Network)
	assert.Equal(t, record.Deployer, loaded.Deployer)
	assert.Equal(t, record.Contracts, loaded.Contracts)
	assert.True(t, record.Timestamp.Equal(loaded.Timestamp))

	info, err := os.Stat(filepath.Join(store.Dir(), "sepolia.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestRecordStore_SaveReplacesPreviousRecord(t *testing.T) {
	store := newTestRecordStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord("localhost", "VotingToken", "Timelock", "Governor")))
	require.NoError(t, store.Save(ctx, testRecord("localhost", "VotingToken")))

	loaded, err := store.Load(ctx, "localhost")
	require.NoError(t, err)
	assert.Equal(t, []string{"VotingToken"}, loaded.Contracts.Names())

	// no temporary files left behind
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "localhost.json", entries[0].Name())
}

func TestRecordStore_KeepsContractOrderOnDisk(t *testing.T) {
	store := newTestRecordStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord("localhost", "Zeta", "Alpha", "Mu")))

	data, err := os.ReadFile(filepath.Join(store.Dir(), "localhost.json"))
	require.NoError(t, err)
	content := string(data)
	zeta := strings.Index(content, `"Zeta"`)
	alpha := strings.Index(content, `"Alpha"`)
	mu := strings.Index(content, `"Mu"`)
	require.NotEqual(t, -1, zeta)
	assert.Less(t, zeta, alpha)
	assert.Less(t, alpha, mu)
}

func TestRecordStore_NetworkNamesAreLowercased(t *testing.T) {
	store := newTestRecordStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord("Sepolia", "VotingToken")))

	_, err := store.Load(ctx, "sepolia")
	assert.NoError(t, err)
}

func TestRecordStore_RejectsPathNames(t *testing.T) {
	store := newTestRecordStore(t)
	ctx := context.Background()

	for _, name := range []string{"", "..", "../etc", `a\b`} {
		err := store.Save(ctx, testRecord(name, "VotingToken"))
		assert.Error(t, err, name)
	}
}

func TestRecordStore_List(t *testing.T) {
	store := newTestRecordStore(t)
	ctx := context.Background()

	networks, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, networks)

	require.NoError(t, store.Save(ctx, testRecord("sepolia", "VotingToken")))
	require.NoError(t, store.Save(ctx, testRecord("anvil", "VotingToken")))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), ".hidden.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0644))

	networks, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"anvil", "sepolia"}, networks)
}
