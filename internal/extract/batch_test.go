package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udyami/internal/domain"
	"udyami/internal/extract"
)

var separator = strings.Repeat("=", 80) + "\n"

const productionBatchMD = `# Production Schedule

### ✅ Order ORD-1
- **Decision:** PROCEED
- **Risk Score:** 2

### ⚠️ Order ORD-2
- **Decision:** DELAY
- **Reason:** Awaiting resin

### ❌ Order ORD-3
- **Risk Score:** 9
`

func TestExtractBatch_SeparatedReports(t *testing.T) {
	text := quotationMD + separator + "Batch Report Summary\nnothing to see\n" + separator + qualityMD

	res := extract.ExtractBatch(text)

	assert.Equal(t, 3, res.Blocks)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Documents, 2)
	assert.Equal(t, domain.KindQuotation, res.Documents[0].Record.Kind())
	assert.Equal(t, domain.KindQuality, res.Documents[1].Record.Kind())
	assert.Equal(t, 0, res.Documents[0].Block.Index)
	assert.Equal(t, 2, res.Documents[1].Block.Index)
}

func TestExtractBatch_ProductionHeadings(t *testing.T) {
	res := extract.ExtractBatch(productionBatchMD)

	assert.Equal(t, 3, res.Blocks)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Documents, 2)

	first := res.Documents[0].Record.(*domain.ProductionOrder)
	second := res.Documents[1].Record.(*domain.ProductionOrder)
	assert.Equal(t, "ORD-1", first.OrderID)
	assert.Equal(t, domain.ProductionProceed, first.Decision)
	assert.Equal(t, "ORD-2", second.OrderID)
	assert.Equal(t, domain.ProductionDelay, second.Decision)
	assert.Equal(t, "Awaiting resin", *second.Reason)
	assert.True(t, strings.HasPrefix(res.Documents[0].Block.Text, "# Production Schedule"))
}

func TestSplitBlocks_IsPartition(t *testing.T) {
	inputs := []string{
		quotationMD + separator + invoiceMD + separator + rndMD,
		productionBatchMD,
		"lead\n" + separator + productionBatchMD + separator + "tail",
	}
	for _, text := range inputs {
		blocks := extract.SplitBlocks(text)

		var joined strings.Builder
		for i, b := range blocks {
			assert.Equal(t, i, b.Index)
			assert.Equal(t, b.Text, text[b.Offset:b.Offset+len(b.Text)])
			joined.WriteString(b.Text)
		}
		assert.Equal(t, strings.ReplaceAll(text, separator, ""), joined.String())
	}
}

func TestExtractBatch_EachSingleBlockExtractedOnce(t *testing.T) {
	singles := []string{quotationMD, invoiceMD, qualityMD, productionMD, rndMD}
	text := strings.Join(singles, separator)

	res := extract.ExtractBatch(text)

	require.Len(t, res.Documents, len(singles))
	assert.Zero(t, res.Skipped)
	for i, single := range singles {
		want, ok := extract.Extract(single)
		require.True(t, ok)
		assert.Equal(t, want, res.Documents[i].Record)
	}
}

func TestExtractBatch_ShortRuleIsNotASeparator(t *testing.T) {
	text := quotationMD + "=====\n" + "more notes\n"

	blocks := extract.SplitBlocks(text)
	assert.Len(t, blocks, 1)
}

func TestExtractBatch_Empty(t *testing.T) {
	res := extract.ExtractBatch("")
	assert.Zero(t, res.Blocks)
	assert.Empty(t, res.Documents)

	res = extract.ExtractBatch(separator + "\n\n" + separator)
	assert.Zero(t, res.Blocks)
}

func TestExtractBatch_LowercaseOrderHeadingsSplit(t *testing.T) {
	res := extract.ExtractBatch("### order ord-1\n- **Decision:** PROCEED\n\n### Order ord-2\n- **Decision:** DELAY\n")

	assert.Equal(t, 2, res.Blocks)
	require.Len(t, res.Documents, 2)
	assert.Equal(t, "ord-1", res.Documents[0].Record.(*domain.ProductionOrder).OrderID)
	assert.Equal(t, "ord-2", res.Documents[1].Record.(*domain.ProductionOrder).OrderID)
}
