package config

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:          8080,
		RateLimit:     50,
		RateBurst:     100,
		VerifyWorkers: 4,
		StartTokenID:  big.NewInt(1),
		Persistence:   PersistenceConfig{Type: PersistenceType_Memory},
	}
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ServerConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(c *ServerConfig) {}},
		{name: "port too low", mutate: func(c *ServerConfig) { c.Port = 0 }, wantErr: "port"},
		{name: "port too high", mutate: func(c *ServerConfig) { c.Port = 70000 }, wantErr: "port"},
		{name: "zero rate", mutate: func(c *ServerConfig) { c.RateLimit = 0 }, wantErr: "rateLimit"},
		{name: "zero burst", mutate: func(c *ServerConfig) { c.RateBurst = 0 }, wantErr: "rateBurst"},
		{name: "no workers", mutate: func(c *ServerConfig) { c.VerifyWorkers = 0 }, wantErr: "verifyWorkers"},
		{name: "negative start", mutate: func(c *ServerConfig) { c.StartTokenID = big.NewInt(-1) }, wantErr: "startTokenId"},
		{name: "nil start", mutate: func(c *ServerConfig) { c.StartTokenID = nil }},
		{
			name:    "badger without path",
			mutate:  func(c *ServerConfig) { c.Persistence = PersistenceConfig{Type: PersistenceType_Badger} },
			wantErr: "persistence.dataPath",
		},
		{
			name: "badger with path",
			mutate: func(c *ServerConfig) {
				c.Persistence = PersistenceConfig{Type: PersistenceType_Badger, DataPath: "/tmp/airdrop"}
			},
		},
		{
			name:    "redis without address",
			mutate:  func(c *ServerConfig) { c.Persistence = PersistenceConfig{Type: PersistenceType_Redis} },
			wantErr: "persistence.redis.address",
		},
		{
			name: "redis bad db",
			mutate: func(c *ServerConfig) {
				c.Persistence = PersistenceConfig{Type: PersistenceType_Redis, Redis: &RedisConfig{Address: "localhost:6379", DB: 16}}
			},
			wantErr: "persistence.redis.db",
		},
		{
			name:    "unknown persistence",
			mutate:  func(c *ServerConfig) { c.Persistence = PersistenceConfig{Type: "sqlite"} },
			wantErr: "persistence.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validServerConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerConfig_ValidateCollectsAllErrors(t *testing.T) {
	c := &ServerConfig{Persistence: PersistenceConfig{Type: PersistenceType_Memory}}
	err := c.Validate()
	require.Error(t, err)
	for _, f := range []string{"port", "rateLimit", "rateBurst", "verifyWorkers"} {
		assert.Contains(t, err.Error(), f)
	}
}

func TestChainConfig_Validate(t *testing.T) {
	valid := func() *ChainConfig {
		return &ChainConfig{
			RpcUrl:          "http://localhost:8545",
			ChainID:         ChainId_EthereumAnvil,
			ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			PrivateKey:      "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
		}
	}

	c := valid()
	require.NoError(t, c.Validate())
	assert.Equal(t, ChainName_EthereumAnvil, c.ChainName)

	c = valid()
	c.ChainID = 5
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain.chainId")

	c = valid()
	c.RpcUrl = "localhost"
	assert.Error(t, c.Validate())

	c = valid()
	c.ContractAddress = "0x1234"
	assert.Error(t, c.Validate())

	c = valid()
	c.PrivateKey = "0xabc"
	err = c.Validate()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "0xabc")

	for _, key := range []string{
		"0x" + strings.Repeat("00", 32),
		"0x" + strings.Repeat("zz", 32),
	} {
		c = valid()
		c.PrivateKey = key
		err = c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid secp256k1 private key")
		assert.NotContains(t, err.Error(), key)
	}
}

func TestParsePersistenceType(t *testing.T) {
	for in, want := range map[string]PersistenceType{
		"":        PersistenceType_Memory,
		"memory":  PersistenceType_Memory,
		"Badger":  PersistenceType_Badger,
		" redis ": PersistenceType_Redis,
	} {
		got, err := ParsePersistenceType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParsePersistenceType("postgres")
	assert.Error(t, err)
}

func TestChainTables(t *testing.T) {
	for _, id := range GetSupportedChainIDs() {
		name, ok := ChainIdToName[id]
		require.True(t, ok)
		assert.Equal(t, id, ChainNameToId[name])
	}
}
