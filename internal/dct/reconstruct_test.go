package dct

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanU/image-reconstruction-with-dct/internal/raster"
)

func randomRaster(t testing.TB, w, h int, seed int64) *raster.Raster {
	t.Helper()
	r, err := raster.New(w, h)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(seed))
	for i := range r.Pix {
		r.Pix[i] = uint8(rng.Intn(256))
	}
	return r
}

func constRaster(t testing.TB, w, h int, v uint8) *raster.Raster {
	t.Helper()
	r, err := raster.New(w, h)
	require.NoError(t, err)
	for i := range r.Pix {
		r.Pix[i] = v
	}
	return r
}

func TestPaddedSize(t *testing.T) {
	tests := []struct {
		w, h   int
		pw, ph int
	}{
		{1, 1, 8, 8},
		{8, 8, 8, 8},
		{10, 10, 16, 16},
		{17, 9, 24, 16},
		{64, 33, 64, 40},
	}
	for _, tc := range tests {
		pw, ph, err := PaddedSize(tc.w, tc.h)
		require.NoError(t, err)
		assert.Equal(t, tc.pw, pw, "%dx%d", tc.w, tc.h)
		assert.Equal(t, tc.ph, ph, "%dx%d", tc.w, tc.h)
	}

	_, _, err := PaddedSize(0, 4)
	assert.ErrorIs(t, err, raster.ErrInvalidDimensions)
	_, _, err = PaddedSize(4, -8)
	assert.ErrorIs(t, err, raster.ErrInvalidDimensions)
}

func TestPad_TenByTen(t *testing.T) {
	src := randomRaster(t, 10, 10, 1)

	t.Run("zero", func(t *testing.T) {
		p, err := Pad(src, FillZero)
		require.NoError(t, err)
		require.Equal(t, 16, p.Width)
		require.Equal(t, 16, p.Height)
		for row := 0; row < 16; row++ {
			for col := 0; col < 16; col++ {
				if row < 10 && col < 10 {
					assert.Equal(t, src.At(col, row), p.At(col, row))
				} else {
					assert.Zero(t, p.At(col, row), "padding at %d,%d", col, row)
				}
			}
		}
	})

	t.Run("edge", func(t *testing.T) {
		p, err := Pad(src, FillEdge)
		require.NoError(t, err)
		for row := 0; row < 16; row++ {
			for col := 0; col < 16; col++ {
				sc, sr := col, row
				if sc > 9 {
					sc = 9
				}
				if sr > 9 {
					sr = 9
				}
				assert.Equal(t, src.At(sc, sr), p.At(col, row), "sample %d,%d", col, row)
			}
		}
	})
}

func TestPad_AlignedIsIdentical(t *testing.T) {
	src := randomRaster(t, 16, 8, 2)
	for _, fill := range []FillPolicy{FillZero, FillEdge} {
		p, err := Pad(src, fill)
		require.NoError(t, err)
		assert.True(t, src.Equal(p), "fill %s", fill)

		p.Pix[0]++
		assert.False(t, src.Equal(p), "padded raster must not alias the source")
	}
}

func TestReconstruct_ConstantBlock(t *testing.T) {
	res, err := Reconstruct(constRaster(t, 8, 8, 128), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Blocks)
	assert.Zero(t, res.Stats.Clamped)
	assert.NoError(t, res.Stats.Err())
	for i, v := range res.Output.Pix {
		assert.InDelta(t, 128, int(v), 2, "sample %d", i)
	}
}

func TestReconstruct_ReferenceDisciplineOnConstantBlock(t *testing.T) {
	res, err := Reconstruct(constRaster(t, 8, 8, 128), ReferenceOptions())
	require.NoError(t, err)

	wantClamped := 0
	for i := 0; i < BlockSize; i++ {
		for j := 0; j < BlockSize; j++ {
			want := 32 * DefaultQuantTable[i][j]
			got := res.Output.At(j, i)
			if want > 255 {
				wantClamped++
				assert.Equal(t, uint8(255), got, "sample %d,%d", i, j)
				continue
			}
			assert.InDelta(t, want, int(got), 1, "sample %d,%d", i, j)
		}
	}
	assert.Equal(t, wantClamped, res.Stats.Clamped)
	assert.ErrorIs(t, res.Stats.Err(), raster.ErrSampleOutOfRange)
}

func TestReconstruct_TenByTen(t *testing.T) {
	src := randomRaster(t, 10, 10, 3)
	res, err := Reconstruct(src, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 16, res.Source.Width)
	assert.Equal(t, 16, res.Source.Height)
	assert.Equal(t, 16, res.Output.Width)
	assert.Equal(t, 16, res.Output.Height)
	assert.Equal(t, 4, res.Stats.Blocks)
	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			require.Equal(t, src.At(col, row), res.Source.At(col, row))
		}
	}
}

func TestReconstruct_Deterministic(t *testing.T) {
	src := randomRaster(t, 37, 23, 4)
	var first *raster.Raster
	for _, workers := range []int{1, 1, 3, 8, 0} {
		opts := DefaultOptions()
		opts.Workers = workers
		res, err := Reconstruct(src, opts)
		require.NoError(t, err)
		if first == nil {
			first = res.Output
			continue
		}
		assert.True(t, first.Equal(res.Output), "workers=%d", workers)
	}
}

func TestReconstruct_UnitTable(t *testing.T) {
	src := randomRaster(t, 24, 16, 5)

	opts := DefaultOptions()
	opts.Table = UnitQuantTable
	opts.RoundCoefficients = false
	res, err := Reconstruct(src, opts)
	require.NoError(t, err)
	assert.True(t, src.Equal(res.Output))
	assert.Zero(t, res.Stats.Clamped)

	opts.RoundCoefficients = true
	res, err = Reconstruct(src, opts)
	require.NoError(t, err)
	mse, err := MSE(src, res.Output)
	require.NoError(t, err)
	assert.Less(t, mse, 1.0)
}

func TestReconstruct_TransposedOrderTransposesEachBlock(t *testing.T) {
	src := randomRaster(t, 16, 16, 6)
	opts := DefaultOptions()
	opts.Table = UnitQuantTable
	opts.RoundCoefficients = false
	opts.Order = IndexTransposed

	res, err := Reconstruct(src, opts)
	require.NoError(t, err)
	for row0 := 0; row0 < 16; row0 += BlockSize {
		for col0 := 0; col0 < 16; col0 += BlockSize {
			for i := 0; i < BlockSize; i++ {
				for j := 0; j < BlockSize; j++ {
					require.Equal(t, src.At(col0+i, row0+j), res.Output.At(col0+j, row0+i))
				}
			}
		}
	}
}

func TestReconstruct_CoarserTableLowersPSNR(t *testing.T) {
	src := randomRaster(t, 32, 32, 8)
	psnr := func(q QuantTable) float64 {
		opts := DefaultOptions()
		opts.Table = q
		res, err := Reconstruct(src, opts)
		require.NoError(t, err)
		mse, err := MSE(src, res.Output)
		require.NoError(t, err)
		return PSNR(mse)
	}
	assert.Greater(t, psnr(UnitQuantTable), psnr(DefaultQuantTable.Scale(8)))
}

func TestReconstruct_Errors(t *testing.T) {
	_, err := Reconstruct(nil, DefaultOptions())
	assert.ErrorIs(t, err, raster.ErrInvalidDimensions)

	_, err = Reconstruct(&raster.Raster{Width: 0, Height: 5}, DefaultOptions())
	assert.ErrorIs(t, err, raster.ErrInvalidDimensions)

	opts := DefaultOptions()
	opts.Table[3][4] = 0
	_, err = Reconstruct(constRaster(t, 8, 8, 1), opts)
	assert.ErrorIs(t, err, ErrInvalidQuantTable)

	_, err = Analyze(nil, DefaultOptions())
	assert.ErrorIs(t, err, raster.ErrInvalidDimensions)
}

func TestAnalyze_DCOnly(t *testing.T) {
	opts := DefaultOptions()
	opts.Table = UnitQuantTable
	opts.RoundCoefficients = false
	opts.Fill = FillEdge

	c, err := Analyze(constRaster(t, 10, 10, 128), opts)
	require.NoError(t, err)
	require.Equal(t, 16, c.Width)
	require.Equal(t, 16, c.Height)
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if row%BlockSize == 0 && col%BlockSize == 0 {
				assert.InDelta(t, 1024.0, c.At(row, col), 1e-9)
				continue
			}
			assert.InDelta(t, 0.0, c.At(row, col), 1e-9, "coefficient %d,%d", row, col)
		}
	}

	blk := c.Block(8, 8)
	assert.InDelta(t, 1024.0, blk[0][0], 1e-9)
}

func TestToSample(t *testing.T) {
	tests := []struct {
		v       float64
		mode    Rounding
		want    uint8
		clamped bool
	}{
		{12.5, RoundNearest, 13, false},
		{12.9, RoundTruncate, 12, false},
		{-0.4, RoundNearest, 0, false},
		{-0.9, RoundTruncate, 0, false},
		{-3.2, RoundNearest, 0, true},
		{255.4, RoundNearest, 255, false},
		{255.6, RoundNearest, 255, true},
		{255.6, RoundTruncate, 255, false},
		{1e9, RoundTruncate, 255, true},
		{math.NaN(), RoundNearest, 0, true},
	}
	for _, tc := range tests {
		got, clamped := toSample(tc.v, tc.mode)
		assert.Equal(t, tc.want, got, "%v %s", tc.v, tc.mode)
		assert.Equal(t, tc.clamped, clamped, "%v %s", tc.v, tc.mode)
	}
}

func TestMSEAndPSNR(t *testing.T) {
	a := constRaster(t, 4, 4, 10)
	b := constRaster(t, 8, 8, 12)

	mse, err := MSE(a, b)
	require.NoError(t, err)
	assert.Equal(t, 4.0, mse)
	assert.InDelta(t, 10*math.Log10(255*255/4.0), PSNR(mse), 1e-9)
	assert.True(t, math.IsInf(PSNR(0), 1))

	_, err = MSE(b, a)
	assert.ErrorIs(t, err, raster.ErrInvalidDimensions)
}

func TestQuantTable(t *testing.T) {
	assert.NoError(t, DefaultQuantTable.Validate())
	assert.NoError(t, UnitQuantTable.Validate())

	bad := UnitQuantTable
	bad[7][7] = -1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidQuantTable)

	half := DefaultQuantTable.Scale(0.1)
	for x := range half {
		for y := range half[x] {
			assert.GreaterOrEqual(t, half[x][y], 1)
		}
	}
	assert.Equal(t, DefaultQuantTable, DefaultQuantTable.Scale(0))
	assert.Equal(t, 30, DefaultQuantTable.Scale(2)[0][7])

	tooBig := UnitQuantTable
	tooBig[0][0] = MaxStep + 1
	assert.ErrorIs(t, tooBig.Validate(), ErrInvalidQuantTable)
	assert.Contains(t, DefaultQuantTable.String(), "  4   3   2   4")
}

func TestQuantTable_ScaleExtremes(t *testing.T) {
	for _, f := range []float64{1e20, math.MaxFloat64, math.Inf(1)} {
		t.Run(fmt.Sprint(f), func(t *testing.T) {
			if math.IsInf(f, 0) {
				assert.ErrorIs(t, CheckScale(f), ErrInvalidScale)
				assert.Equal(t, DefaultQuantTable, DefaultQuantTable.Scale(f))
				return
			}
			require.NoError(t, CheckScale(f))
			got := DefaultQuantTable.Scale(f)
			for x := range got {
				for y := range got[x] {
					assert.Equal(t, MaxStep, got[x][y])
				}
			}
			assert.NoError(t, got.Validate())
		})
	}

	for _, f := range []float64{math.NaN(), math.Inf(-1), -2} {
		assert.ErrorIs(t, CheckScale(f), ErrInvalidScale, "scale %g", f)
		assert.Equal(t, DefaultQuantTable, DefaultQuantTable.Scale(f), "scale %g", f)
	}
	assert.NoError(t, CheckScale(0))
	assert.NoError(t, CheckScale(0.5))
}

func TestReconstruct_MaxStepTableZeroesBlock(t *testing.T) {
	src, err := raster.New(8, 8)
	require.NoError(t, err)
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 4)
	}
	opts := DefaultOptions()
	opts.Table = DefaultQuantTable.Scale(1e20)
	res, err := Reconstruct(src, opts)
	require.NoError(t, err)
	for _, v := range res.Output.Pix {
		assert.Equal(t, uint8(0), v)
	}
}

func TestParseOptions(t *testing.T) {
	f, err := ParseFillPolicy("Edge")
	require.NoError(t, err)
	assert.Equal(t, FillEdge, f)
	_, err = ParseFillPolicy("mirror")
	assert.Error(t, err)

	r, err := ParseRounding("truncate")
	require.NoError(t, err)
	assert.Equal(t, RoundTruncate, r)
	_, err = ParseRounding("up")
	assert.Error(t, err)
}

func BenchmarkReconstruct256(b *testing.B) {
	src := randomRaster(b, 256, 256, 9)
	opts := DefaultOptions()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Reconstruct(src, opts); err != nil {
			b.Fatal(err)
		}
	}
}
