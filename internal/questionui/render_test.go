package questionui

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const open = `<div xmlns="http://www.w3.org/1999/xhtml">`

const questionStart = `<qpy:question xmlns="` + XHTMLNamespace + `" xmlns:qpy="` + QPYNamespace + `">`

var interTag = regexp.MustCompile(`>\s+<`)

// compact drops the indentation between tags so fixtures can stay readable.
func compact(s string) string {
	return strings.TrimSpace(interTag.ReplaceAllString(s, "><"))
}

func loadFixture(t *testing.T, name string, placeholders map[string]string, opts ...Option) *Document {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	d, err := Parse(string(b), placeholders, opts...)
	require.NoError(t, err)
	return d
}

func formulation(body string) string {
	return questionStart + `<qpy:formulation>` + body + `</qpy:formulation></qpy:question>`
}

func renderFormulation(t *testing.T, d *Document, response Response, opts *DisplayOptions) string {
	t.Helper()
	html, err := d.RenderFormulation(response, opts)
	require.NoError(t, err)
	return compact(html)
}

func withRole(role string) *DisplayOptions {
	o := DefaultDisplayOptions()
	o.Context = map[string]any{"role": role}
	return &o
}

func TestPlaceholders(t *testing.T) {
	d, err := Parse(formulation(
		`<div><?p description plain?></div>`+
			`<span>Default: <?p param?></span>`+
			`<span>Clean: <?p param clean?></span>`+
			`<span>Noclean: <?p param noclean?></span>`+
			`<span>Plain: <?p param plain?></span>`+
			`<span>Missing: <?p missing?></span>`+
			`<span>Empty: <?p?></span>`),
		map[string]string{
			"param":       "Value of param <b>one</b>.<script>'Oh no, danger!'</script>",
			"description": "My simple description.",
		})
	require.NoError(t, err)

	assert.Equal(t, open+
		`<div>My simple description.</div>`+
		`<span>Default: Value of param <b>one</b>.</span>`+
		`<span>Clean: Value of param <b>one</b>.</span>`+
		`<span>Noclean: Value of param <b>one</b>.<script>'Oh no, danger!'</script></span>`+
		`<span>Plain: Value of param &lt;b&gt;one&lt;/b&gt;.&lt;script&gt;'Oh no, danger!'&lt;/script&gt;</span>`+
		`<span>Missing: </span>`+
		`<span>Empty: </span>`+
		`</div>`, renderFormulation(t, d, nil, nil))
}

func TestPlaceholderUnknownModeIsPlain(t *testing.T) {
	d, err := Parse(formulation(`<p><?p v shouty?></p>`), map[string]string{"v": "<i>x</i>"})
	require.NoError(t, err)
	assert.Equal(t, open+`<p>&lt;i&gt;x&lt;/i&gt;</p></div>`, renderFormulation(t, d, nil, nil))
}

func TestPlaceholderContentIsFiltered(t *testing.T) {
	d, err := Parse(formulation(`<div><?p fb noclean?></div>`),
		map[string]string{"fb": `<span qpy:feedback="general">G</span><span>K</span>`})
	require.NoError(t, err)

	assert.Equal(t, open+`<div><span>K</span></div></div>`,
		renderFormulation(t, d, nil, &DisplayOptions{}))
	all := DefaultDisplayOptions()
	assert.Equal(t, open+`<div><span>G</span><span>K</span></div></div>`,
		renderFormulation(t, d, nil, &all))
}

func TestPlaceholderMapIsCopied(t *testing.T) {
	values := map[string]string{"v": "before"}
	d, err := Parse(formulation(`<p><?p v plain?></p>`), values)
	require.NoError(t, err)
	values["v"] = "after"
	assert.Equal(t, open+`<p>before</p></div>`, renderFormulation(t, d, nil, nil))
}

func TestFeedbackVisibility(t *testing.T) {
	d := loadFixture(t, "feedbacks.xhtml", nil)

	tests := []struct {
		name string
		opts *DisplayOptions
		want string
	}{
		{"none", &DisplayOptions{}, `<span>No feedback</span>`},
		{"general only", &DisplayOptions{GeneralFeedback: true},
			`<span>No feedback</span><span>General feedback</span>`},
		{"specific only", &DisplayOptions{Feedback: true},
			`<span>No feedback</span><span>Specific feedback</span>`},
		{"all", &DisplayOptions{GeneralFeedback: true, Feedback: true},
			`<span>No feedback</span><span>General feedback</span><span>Specific feedback</span>`},
		{"no options", nil,
			`<span>No feedback</span><span>General feedback</span><span>Specific feedback</span>`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, open+tc.want+`</div>`, renderFormulation(t, d, nil, tc.opts))
		})
	}
}

func TestIfRole(t *testing.T) {
	d := loadFixture(t, "if-role.xhtml", nil)
	all := `<div>You're a teacher!</div><div>You're a developer!</div><div>You're a scorer!</div>` +
		`<div>You're a proctor!</div><div>You have a role!</div>`
	defaults := DefaultDisplayOptions()

	tests := []struct {
		name string
		opts *DisplayOptions
		want string
	}{
		{"guest", withRole("guest"), ``},
		{"teacher", withRole("teacher"), `<div>You're a teacher!</div><div>You have a role!</div>`},
		{"proctor", withRole("proctor"), `<div>You're a proctor!</div><div>You have a role!</div>`},
		{"admin", withRole(RoleAdmin), all},
		{"no role", &defaults, all},
		{"empty role", withRole(""), all},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, open+tc.want+`</div>`, renderFormulation(t, d, nil, tc.opts))
		})
	}
}

func TestReadonlyDisablesControls(t *testing.T) {
	d, err := Parse(formulation(
		`<input name="a"/><select name="b"><option value="x">X</option></select>`+
			`<textarea name="c"></textarea><button name="d">B</button>`), nil)
	require.NoError(t, err)

	assert.Equal(t, open+
		`<input name="a" disabled="disabled" class="form-control qpy-input"/>`+
		`<select name="b" disabled="disabled" class="form-control qpy-input"><option value="x">X</option></select>`+
		`<textarea name="c" disabled="disabled" class="form-control qpy-input"></textarea>`+
		`<button name="d" disabled="disabled" class="btn btn-primary qpy-input">B</button>`+
		`</div>`, renderFormulation(t, d, nil, &DisplayOptions{Readonly: true}))
}

func TestPreviousResponseIsRestored(t *testing.T) {
	d, err := Parse(formulation(
		`<input name="t" type="text"/>`+
			`<input name="cb" type="checkbox" value="yes"/>`+
			`<input name="r" type="radio" value="1"/><input name="r" type="radio" value="2"/>`+
			`<select name="s"><option>a</option><option>b</option></select>`+
			`<textarea name="ta"></textarea>`+
			`<input name="h" type="hidden"/>`+
			`<input name="untouched"/>`), nil)
	require.NoError(t, err)

	got := renderFormulation(t, d, Response{
		"t": "hello", "cb": "yes", "r": "2", "s": "b", "ta": "long text", "h": "secret",
	}, nil)
	assert.Equal(t, open+
		`<input name="t" type="text" value="hello" class="form-control qpy-input"/>`+
		`<input name="cb" type="checkbox" value="yes" checked="checked" class="qpy-input"/>`+
		`<input name="r" type="radio" value="1" class="qpy-input"/>`+
		`<input name="r" type="radio" value="2" checked="checked" class="qpy-input"/>`+
		`<select name="s" class="form-control qpy-input"><option>a</option><option selected="selected">b</option></select>`+
		`<textarea name="ta" value="long text" class="form-control qpy-input"></textarea>`+
		`<input name="h" type="hidden" class="form-control qpy-input"/>`+
		`<input name="untouched" class="form-control qpy-input"/>`+
		`</div>`, got)
}

func TestSoftenValidation(t *testing.T) {
	d := loadFixture(t, "validations.xhtml", nil)
	assert.Equal(t, open+
		`<input data-qpy_required="true" aria-required="true" class="form-control qpy-input"/>`+
		`<input data-qpy_pattern="^[a-z]+$" class="form-control qpy-input"/>`+
		`<input data-qpy_minlength="5" class="form-control qpy-input"/>`+
		`<input data-qpy_maxlength="10" class="form-control qpy-input"/>`+
		`<input data-qpy_min="17" aria-valuemin="17" class="form-control qpy-input"/>`+
		`<input data-qpy_max="42" aria-valuemax="42" class="form-control qpy-input"/>`+
		`<input data-qpy_pattern="^[a-z]+$" data-qpy_required="true" aria-required="true"`+
		` data-qpy_minlength="5" data-qpy_maxlength="10" data-qpy_min="17" aria-valuemin="17"`+
		` data-qpy_max="42" aria-valuemax="42" class="form-control qpy-input"/>`+
		`<textarea data-qpy_required="true" aria-required="true" data-qpy_minlength="3" class="form-control qpy-input"></textarea>`+
		`<select min="1" data-qpy_required="true" aria-required="true" class="form-control qpy-input"><option>x</option></select>`+
		`</div>`, renderFormulation(t, d, nil, nil))
}

func TestSoftenValidationDropsEmptyValues(t *testing.T) {
	d, err := Parse(formulation(`<input pattern="" minlength=""/>`), nil)
	require.NoError(t, err)
	assert.Equal(t, open+`<input class="form-control qpy-input"/></div>`, renderFormulation(t, d, nil, nil))
}

func TestDefuseButtons(t *testing.T) {
	d := loadFixture(t, "buttons.xhtml", nil)
	assert.Equal(t, open+
		`<button type="button" class="btn btn-primary qpy-input">Submit</button>`+
		`<button type="button" class="btn btn-primary qpy-input">Reset</button>`+
		`<button type="button" class="btn btn-primary qpy-input">Button</button>`+
		`<input type="button" value="Submit" class="btn btn-primary qpy-input"/>`+
		`<input type="button" value="Reset" class="btn btn-primary qpy-input"/>`+
		`<input type="button" value="Button" class="btn btn-primary qpy-input"/>`+
		`</div>`, renderFormulation(t, d, nil, nil))
}

func TestAddStylesKeepsExistingClasses(t *testing.T) {
	d, err := Parse(formulation(`<input class="wide qpy-input" type="radio"/>`), nil)
	require.NoError(t, err)
	assert.Equal(t, open+`<input class="wide qpy-input" type="radio"/></div>`, renderFormulation(t, d, nil, nil))
}

var shuffledLabel = regexp.MustCompile(
	`<label><input type="radio" name="choice" value="([A-E])" class="qpy-input"/>([ivx]+)\. ([A-E])</label>`)

func TestShuffleContentsNumbersByPosition(t *testing.T) {
	d := loadFixture(t, "shuffle.xhtml", nil, WithSeed(42))
	html := renderFormulation(t, d, nil, nil)

	m := shuffledLabel.FindAllStringSubmatch(html, -1)
	require.Len(t, m, 5, html)
	seen := map[string]bool{}
	for i, label := range m {
		want, _ := formatIndex(i+1, formatLowerRoman)
		assert.Equal(t, want, label[2], "index follows the new position")
		assert.Equal(t, label[1], label[3], "label moves with its input")
		seen[label[1]] = true
	}
	assert.Len(t, seen, 5)
	assert.NotContains(t, html, "shuffle-contents")
	assert.NotContains(t, html, "shuffled-index")
}

func TestShuffleOrderIsFixedPerSeed(t *testing.T) {
	for seed, want := range map[int64]string{42: "CDEAB", 7: "CBDAE"} {
		html := renderFormulation(t, loadFixture(t, "shuffle.xhtml", nil, WithSeed(seed)), nil, nil)
		var got strings.Builder
		for _, m := range shuffledLabel.FindAllStringSubmatch(html, -1) {
			got.WriteString(m[1])
		}
		assert.Equal(t, want, got.String(), "seed %d", seed)
	}
}

func TestShuffleIsStableForSeed(t *testing.T) {
	first := renderFormulation(t, loadFixture(t, "shuffle.xhtml", nil, WithSeed(42)), nil, nil)
	for i := 0; i < 10; i++ {
		d := loadFixture(t, "shuffle.xhtml", nil, WithSeed(42))
		assert.Equal(t, first, renderFormulation(t, d, nil, nil))
	}

	zero := loadFixture(t, "shuffle.xhtml", nil, WithSeed(0))
	assert.Equal(t, renderFormulation(t, zero, nil, nil), renderFormulation(t, zero, nil, nil))
}

func TestShuffleWithoutSeedKeepsEveryChoice(t *testing.T) {
	d := loadFixture(t, "shuffle.xhtml", nil)
	_, ok := d.Seed()
	assert.False(t, ok)
	for i := 0; i < 5; i++ {
		assert.Len(t, shuffledLabel.FindAllString(renderFormulation(t, d, nil, nil), -1), 5)
	}
}

func TestShuffleKeepsTextSlots(t *testing.T) {
	d, err := Parse(formulation(`<ol qpy:shuffle-contents="">head<li>a</li>|<li>b</li>tail</ol>`), nil, WithSeed(7))
	require.NoError(t, err)
	html := renderFormulation(t, d, nil, nil)
	assert.Regexp(t, `^`+regexp.QuoteMeta(open)+`<ol>head<li>[ab]</li>\|<li>[ab]</li>tail</ol></div>$`, html)
	assert.Contains(t, html, "<li>a</li>")
	assert.Contains(t, html, "<li>b</li>")
}

func TestShuffledIndexFormats(t *testing.T) {
	d, err := Parse(formulation(`<div qpy:shuffle-contents="">`+
		`<p><qpy:shuffled-index/> <qpy:shuffled-index format="abc"/> <qpy:shuffled-index format="ABC"/>`+
		` <qpy:shuffled-index format="III"/> <qpy:shuffled-index format="?"/></p>`+
		`</div><qpy:shuffled-index/>`), nil, WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, open+`<div><p>1 a A I 1</p></div></div>`, renderFormulation(t, d, nil, nil))
}

func TestConcurrentRendersAgree(t *testing.T) {
	d := loadFixture(t, "shuffle.xhtml", nil, WithSeed(3))
	want := renderFormulation(t, d, nil, nil)

	var wg sync.WaitGroup
	got := make([]string, 16)
	for i := range got {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			html, err := d.RenderFormulation(nil, withRole("teacher"))
			if err == nil {
				got[i] = compact(html)
			}
		}()
	}
	wg.Wait()
	for _, g := range got {
		assert.Equal(t, want, g)
	}
}

func TestFormatFloatElement(t *testing.T) {
	tests := []struct {
		name, el, want string
		opts           []Option
	}{
		{"shortest", `<qpy:format-float>1.23456</qpy:format-float>`, "1.23456", nil},
		{"thousands", `<qpy:format-float thousands-separator="yes">1000000000</qpy:format-float>`, "1,000,000,000", nil},
		{"thousands with decimals", `<qpy:format-float thousands-separator="yes">10000000000.123</qpy:format-float>`,
			"10,000,000,000.123", nil},
		{"thousands off", `<qpy:format-float thousands-separator="no">12345</qpy:format-float>`, "12345", nil},
		{"round down", `<qpy:format-float precision="2">1.11111</qpy:format-float>`, "1.11", nil},
		{"round up", `<qpy:format-float precision="2">1.116</qpy:format-float>`, "1.12", nil},
		{"pad", `<qpy:format-float precision="5">1.1</qpy:format-float>`, "1.10000", nil},
		{"strip zeros", `<qpy:format-float precision="5" strip-zeros="">1.1</qpy:format-float>`, "1.1", nil},
		{"strip to integer", `<qpy:format-float precision="3" strip-zeros="">2</qpy:format-float>`, "2", nil},
		{"negative", `<qpy:format-float thousands-separator="yes"> -1234.5 </qpy:format-float>`, "-1,234.5", nil},
		{"not a number", `<qpy:format-float>abc</qpy:format-float>`, "abc", nil},
		{"separators", `<qpy:format-float thousands-separator="yes">1000000.5</qpy:format-float>`, "1.000.000,5",
			[]Option{WithSeparators(".", ",")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Parse(formulation(`<p>`+tc.el+` units</p>`), nil, tc.opts...)
			require.NoError(t, err)
			assert.Equal(t, open+`<p>`+tc.want+` units</p></div>`, renderFormulation(t, d, nil, nil))
		})
	}
}

func TestCleanUp(t *testing.T) {
	d := loadFixture(t, "clean-up.xhtml", nil)
	assert.Equal(t, open+`<element>Content</element><regular>Normal Content</regular></div>`,
		renderFormulation(t, d, nil, nil))
}

func TestCleanUpKeepsForeignAttributesQualified(t *testing.T) {
	d, err := Parse(formulation(`<a xmlns:x="urn:x" href="1" x:href="2" qpy:x="3">l</a>`), nil)
	require.NoError(t, err)
	assert.Equal(t, open+`<a xmlns:x="urn:x" href="1" x:href="2">l</a></div>`, renderFormulation(t, d, nil, nil))
}

func TestTextareaKeepsContentWhenHydrated(t *testing.T) {
	d, err := Parse(formulation(`<textarea name="ta">orig</textarea>`), nil)
	require.NoError(t, err)
	assert.Equal(t, open+`<textarea name="ta" value="stored" class="form-control qpy-input">orig</textarea></div>`,
		renderFormulation(t, d, Response{"ta": "stored"}, nil))
}

func TestRenderAllParts(t *testing.T) {
	d := loadFixture(t, "all-parts.xhtml", map[string]string{"a": "2", "b": "3"})
	opts := DefaultDisplayOptions()

	html, err := d.RenderFormulation(nil, &opts)
	require.NoError(t, err)
	assert.Equal(t, open+`<p>What is 2 + 3?</p><input name="sum" type="number" class="form-control qpy-input"/></div>`, html)

	html, ok, err := d.RenderGeneralFeedback(nil, &opts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, open+`<p>Add the numbers.</p></div>`, html)

	html, ok, err = d.RenderSpecificFeedback(nil, &opts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, open+`<p>Your answer was checked.</p></div>`, html)

	html, ok, err = d.RenderSpecificFeedback(nil, &DisplayOptions{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, open+`</div>`, html)

	html, ok, err = d.RenderRightAnswer(nil, &opts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, open+`<p>The answer is 5.0.</p></div>`, html)
}

func TestRenderDoesNotMutateDocument(t *testing.T) {
	d := loadFixture(t, "all-parts.xhtml", map[string]string{"a": "2", "b": "3"})
	before := d.Metadata()
	first, err := d.RenderFormulation(Response{"sum": "5"}, &DisplayOptions{Readonly: true})
	require.NoError(t, err)
	second, err := d.RenderFormulation(nil, nil)
	require.NoError(t, err)

	assert.Contains(t, first, `value="5"`)
	assert.NotContains(t, second, `value="5"`)
	assert.NotContains(t, second, "disabled")
	assert.Equal(t, before, d.Metadata())
}

func TestOptionalPartMissing(t *testing.T) {
	d, err := Parse(formulation(`<p>only</p>`), nil)
	require.NoError(t, err)

	for _, p := range Parts[1:] {
		html, ok, err := d.RenderPart(p, nil, nil)
		require.NoError(t, err, p)
		assert.False(t, ok, p)
		assert.Empty(t, html, p)
		assert.False(t, d.HasPart(p))
	}
	assert.True(t, d.HasPart(PartFormulation))
}

func TestMissingFormulationFailsEveryPart(t *testing.T) {
	d, err := Parse(questionStart+`<qpy:general-feedback>x</qpy:general-feedback></qpy:question>`, nil)
	require.NoError(t, err)

	for _, p := range Parts {
		_, _, err := d.RenderPart(p, nil, nil)
		assert.ErrorIs(t, err, ErrFormulationElementMissing, p)
	}
	_, err = d.RenderFormulation(nil, nil)
	assert.ErrorIs(t, err, ErrFormulationElementMissing)
}

func TestUnknownPart(t *testing.T) {
	d, err := Parse(formulation(`<p/>`), nil)
	require.NoError(t, err)
	_, _, err = d.RenderPart(Part("hint"), nil, nil)
	assert.Error(t, err)
}

func TestMalformedDocument(t *testing.T) {
	for _, src := range []string{
		"", "<qpy:question>", "<a></b>", "<a/><b/>",
		"<qpy:question><qpy:formulation/></qpy:question>",
		questionStart + `<qpy:formulation><p x:y="1"/></qpy:formulation></qpy:question>`,
	} {
		_, err := Parse(src, nil)
		assert.ErrorIs(t, err, ErrMalformedDocument, src)
	}
}

func TestParsePart(t *testing.T) {
	for in, want := range map[string]Part{
		"formulation":       PartFormulation,
		"general_feedback":  PartGeneralFeedback,
		"specific-feedback": PartSpecificFeedback,
		" Right_Answer ":    PartRightAnswer,
	} {
		got, ok := ParsePart(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParsePart("hint")
	assert.False(t, ok)
}
