package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetquote/core/model"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		sc, err := Load(f)
		require.NoError(t, err, f)
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load("no-file.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSettingsDefToModel(t *testing.T) {
	def := SettingsDef{
		FuelPrices:        map[string]float64{"diesel": 25},
		ServiceLevelRates: map[string]float64{"express": 1.3},
		LoadingFee:        800,
	}
	v := VehicleDef{ID: "truck", Fuel: "diesel", Efficiency: 8, MinPrice: 2000}
	s := def.ToModel([]VehicleDef{v})

	assert.Equal(t, 25.0, s.FuelPrice(model.FuelDiesel))
	assert.Equal(t, 1.3, s.ServiceLevelRate(model.ServiceExpress))
	assert.Equal(t, 800.0, s.ManeuverFees().Loading)
	p, ok := s.Profile("truck")
	require.True(t, ok)
	assert.Equal(t, 8.0, p.ActiveEfficiency())
	assert.Equal(t, 2000.0, p.MinPrice)
}
