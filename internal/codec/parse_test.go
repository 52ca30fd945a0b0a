package codec

import (
	"strings"
	"testing"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginSchema() domain.Schema {
	return domain.Schema{
		{Key: "ozellik", Label: "Özellik", Type: domain.ColumnText},
		{Key: "backend", Label: "Backend", Type: domain.ColumnStatus},
		{Key: "frontend", Label: "Frontend", Type: domain.ColumnStatus},
	}
}

func TestParse_SinglePhaseRow(t *testing.T) {
	md := `## 01 — Setup

| No | Özellik | Backend | Frontend |
|----|---------|---------|----------|
| 1 | Login | ✅ | ❌ |
`
	doc := Parse(md, loginSchema())

	require.Equal(t, []string{"faz1"}, doc.Order)
	assert.Equal(t, "Setup", doc.Names["faz1"])
	items := doc.Phases["faz1"]
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, map[string]string{
		"ozellik":  "Login",
		"backend":  "✅",
		"frontend": "❌",
	}, items[0].Fields)
}

func TestParse_EmptyStatusCellDefaultsToDash(t *testing.T) {
	md := `## 01 — Setup
| No | Özellik | Backend | Frontend |
|----|---|---|---|
| 1 | Login |  | ✅ |
| 2 | Logout | ❌ |  |
`
	doc := Parse(md, loginSchema())

	items := doc.Phases["faz1"]
	require.Len(t, items, 2)
	assert.Equal(t, domain.StatusNone, items[0].Get("backend"))
	assert.Equal(t, domain.StatusNone, items[1].Get("frontend"), "blank trailing status cell")
}

func TestParse_PhaseOrderIsFirstSeen(t *testing.T) {
	md := `## 01 — Beta
| No | Özellik | Backend | Frontend |
| 1 | b | - | - |

---

## 02 — Alpha
| No | Özellik | Backend | Frontend |
| 1 | a | - | - |
`
	doc := Parse(md, loginSchema())

	assert.Equal(t, []string{"faz1", "faz2"}, doc.Order)
	assert.Equal(t, "Beta", doc.Names["faz1"])
	assert.Equal(t, "Alpha", doc.Names["faz2"])
}

func TestParse_LegacyHeadingsKeepFileOrder(t *testing.T) {
	md := `## FAZ3 — Yayın
| No | Özellik | Backend | Frontend |
| 1 | Deploy | ✅ | ✅ |

## FAZ1: Temel
| No | Özellik | Backend | Frontend |
| 1 | Auth | ❌ | ❌ |
`
	doc := Parse(md, loginSchema())

	assert.Equal(t, []string{"faz3", "faz1"}, doc.Order)
	assert.Equal(t, "Yayın", doc.Names["faz3"])
	assert.Equal(t, "Temel", doc.Names["faz1"])
	assert.Equal(t, "Auth", doc.Phases["faz1"][0].Get("ozellik"))
}

func TestParse_EscapedPipeCell(t *testing.T) {
	md := `## 01 — Setup
| No | Özellik | Backend | Frontend |
| 1 | Foo \| Bar | ✅ | ✅ |
`
	doc := Parse(md, loginSchema())

	require.Len(t, doc.Phases["faz1"], 1)
	assert.Equal(t, "Foo | Bar", doc.Phases["faz1"][0].Get("ozellik"))
}

func TestParse_DuplicateHeadingAccumulates(t *testing.T) {
	md := `## 01 — X
| No | Özellik | Backend | Frontend |
| 1 | first | - | - |

---

## 01 — X
| No | Özellik | Backend | Frontend |
| 1 | second | - | - |
`
	doc := Parse(md, loginSchema())

	assert.Equal(t, []string{"faz1"}, doc.Order)
	items := doc.Phases["faz1"]
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Get("ozellik"))
	assert.Equal(t, "second", items[1].Get("ozellik"))
}

func TestParse_MalformedRowsSkipped(t *testing.T) {
	md := `## 01 — Setup
| No | Özellik | Backend | Frontend |
| lonely |
| a | b |
| 1 | Kept | ✅ | ✅ |
`
	doc := Parse(md, loginSchema())

	require.Len(t, doc.Phases["faz1"], 1)
	assert.Equal(t, "Kept", doc.Phases["faz1"][0].Get("ozellik"))
}

func TestParse_RuleEndsPhaseOnlyAfterRows(t *testing.T) {
	md := `## 01 — Setup
---
| No | Özellik | Backend | Frontend |
| 1 | inside | - | - |
---
| 2 | outside | - | - |
`
	doc := Parse(md, loginSchema())

	items := doc.Phases["faz1"]
	require.Len(t, items, 1)
	assert.Equal(t, "inside", items[0].Get("ozellik"))
}

func TestParse_RowWithoutNumberColumn(t *testing.T) {
	md := `## 01 — Setup
| Özellik | Backend | Frontend |
|---|---|---|
| 7 | ✅ | ❌ |
`
	doc := Parse(md, loginSchema())

	require.Len(t, doc.Phases["faz1"], 1)
	assert.Equal(t, "7", doc.Phases["faz1"][0].Get("ozellik"), "numeric title is kept when no extra column exists")
}

func TestParse_SummaryTerminatesTables(t *testing.T) {
	md := `## 01 — Setup
| No | Özellik | Backend | Frontend |
| 1 | Login | ✅ | ✅ |

## GENEL ÖZET
| Alan | Tamamlanan | Toplam | Oran |
| Backend | 1 | 1 | %100 |
`
	doc := Parse(md, loginSchema())

	assert.Len(t, doc.Phases["faz1"], 1)
	assert.Empty(t, doc.Aux.Changelog)
}

func TestParse_AuxTables(t *testing.T) {
	md := `# Proje X

## HATALAR
| Başlık | Açıklama |
|---|---|
| Crash | Login \| çöküyor |

## DİĞER DEĞİŞİKLİKLER
| Başlık | Açıklama |
| Tema | Koyu tema eklendi |

## DEĞİŞİKLİK GEÇMİŞİ
| Tarih | Değişiklik |
|---|---|
| 2026-01-02 | İlk sürüm |
`
	doc := Parse(md, loginSchema())

	assert.Equal(t, "Proje X", doc.Title)
	assert.Equal(t, []domain.NoteEntry{{Title: "Crash", Description: "Login | çöküyor"}}, doc.Aux.Errors)
	assert.Equal(t, []domain.NoteEntry{{Title: "Tema", Description: "Koyu tema eklendi"}}, doc.Aux.OtherChanges)
	assert.Equal(t, []domain.ChangeEntry{{Date: "2026-01-02", Change: "İlk sürüm"}}, doc.Aux.Changelog)
}

func TestParse_DottedNumbersBuildSubtasks(t *testing.T) {
	md := `## 01 — Setup
| No | Özellik | Backend | Frontend |
| 1 | Auth | - | - |
| 1.1 | Login | ✅ | - |
| 1.1.1 | Form | ✅ | ✅ |
| 1.1.1.1 | Too deep | - | - |
| 1.2 | Logout | - | - |
| 2 | Billing | - | - |
| 9.1 | Orphan | - | - |
`
	doc := Parse(md, loginSchema())

	roots := doc.Phases["faz1"]
	require.Len(t, roots, 3)
	assert.Equal(t, "Auth", roots[0].Get("ozellik"))
	require.Len(t, roots[0].Children, 2)
	login := roots[0].Children[0]
	assert.Equal(t, "Login", login.Get("ozellik"))
	require.Len(t, login.Children, 2, "rows deeper than the limit are clamped onto the depth-1 parent")
	assert.Equal(t, "Form", login.Children[0].Get("ozellik"))
	assert.Equal(t, "Too deep", login.Children[1].Get("ozellik"))
	assert.Equal(t, "Logout", roots[0].Children[1].Get("ozellik"))
	assert.Equal(t, "Orphan", roots[2].Get("ozellik"))
}

func TestParse_GarbageYieldsEmptyTree(t *testing.T) {
	doc := Parse("just some text\n| not | a | table |\n", loginSchema())

	assert.Empty(t, doc.Phases)
	assert.Empty(t, doc.Order)
}

func TestParse_IDsAreRegenerated(t *testing.T) {
	md := "## 01 — S\n| No | Özellik | Backend | Frontend |\n| 1 | A | - | - |\n"

	a := Parse(md, loginSchema())
	b := Parse(md, loginSchema())

	assert.NotEqual(t, a.Phases["faz1"][0].ID, b.Phases["faz1"][0].ID)
}

func TestParse_LegacyHeaderWithoutNumberColumn(t *testing.T) {
	md := `## 01 — Setup
| Özellik | Backend | Frontend |
|---|---|---|
| Login | ✅ | ❌ |
`
	doc := Parse(md, loginSchema())

	require.Len(t, doc.Phases["faz1"], 1)
	assert.Equal(t, "Login", doc.Phases["faz1"][0].Get("ozellik"))
}

func TestParse_LongLinesAreNotTruncated(t *testing.T) {
	long := strings.Repeat("x", 5*1024*1024)
	md := "## 01 — Setup\n| No | Özellik | Backend | Frontend |\n| 1 | " + long + " | - | - |\n| 2 | After | - | - |\n"

	doc := Parse(md, loginSchema())

	require.Len(t, doc.Phases["faz1"], 2)
	assert.Len(t, doc.Phases["faz1"][0].Get("ozellik"), len(long))
	assert.Equal(t, "After", doc.Phases["faz1"][1].Get("ozellik"))
}
