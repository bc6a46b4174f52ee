package bbl

import (
	"strings"
	"testing"
)

func TestSplit_PlainStyle(t *testing.T) {
	input := `\begin{thebibliography}{10}

\bibitem{knuth73}
D.~E. Knuth.
\newblock {\em The Art of Computer Programming}.
\newblock Addison-Wesley, 1973.

\bibitem{smith2020}
J.~Smith.
\newblock Title of Paper.
\newblock In Proceedings of ICML, pages 1--10, 2020.

\end{thebibliography}
`

	got := Split(input)

	if len(got.Blocks) != 2 {
		t.Fatalf("Split() returned %d blocks, want 2", len(got.Blocks))
	}
	if got.Skipped != 0 {
		t.Errorf("Split() skipped = %d, want 0", got.Skipped)
	}

	if got.Blocks[0].Label != "knuth73" {
		t.Errorf("first block label = %q, want knuth73", got.Blocks[0].Label)
	}
	if got.Blocks[1].Label != "smith2020" {
		t.Errorf("second block label = %q, want smith2020", got.Blocks[1].Label)
	}

	if !strings.Contains(got.Blocks[0].Raw, "Addison-Wesley") {
		t.Errorf("first block body missing content: %q", got.Blocks[0].Raw)
	}
	if strings.Contains(got.Blocks[1].Raw, "thebibliography") {
		t.Errorf("environment trailer not stripped from last block: %q", got.Blocks[1].Raw)
	}
}

func TestSplit_NatbibLabels(t *testing.T) {
	input := `\bibitem[Smith et~al.(2020)]{smith20}
J. Smith and B. Doe. A paper. Nature, 2020.
`

	got := Split(input)

	if len(got.Blocks) != 1 {
		t.Fatalf("Split() returned %d blocks, want 1", len(got.Blocks))
	}
	if got.Blocks[0].Label != "smith20" {
		t.Errorf("label = %q, want smith20", got.Blocks[0].Label)
	}
	if strings.Contains(got.Blocks[0].Raw, "Smith et~al.(2020)") {
		t.Errorf("optional bracket label leaked into body: %q", got.Blocks[0].Raw)
	}
}

func TestSplit_Harvarditem(t *testing.T) {
	input := `\harvarditem[Smith]{Smith}{2020}{smith:hv}
J. Smith. A harvard-style item. 2020.
`

	got := Split(input)

	if len(got.Blocks) != 1 {
		t.Fatalf("Split() returned %d blocks, want 1", len(got.Blocks))
	}
	if got.Blocks[0].Label != "smith:hv" {
		t.Errorf("label = %q, want smith:hv", got.Blocks[0].Label)
	}
}

func TestSplit_PreambleDiscarded(t *testing.T) {
	input := `\providecommand{\natexlab}[1]{#1}
\providecommand{\url}[1]{\texttt{#1}}
\begin{thebibliography}{1}
\bibitem{only}
The only item.
\end{thebibliography}`

	got := Split(input)

	if len(got.Blocks) != 1 {
		t.Fatalf("Split() returned %d blocks, want 1", len(got.Blocks))
	}
	if got.Blocks[0].Raw != "The only item." {
		t.Errorf("body = %q, want %q", got.Blocks[0].Raw, "The only item.")
	}
}

func TestSplit_MalformedBlocksSkipped(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantBlocks  int
		wantSkipped int
	}{
		{"empty key", `\bibitem{} body text here`, 0, 1},
		{"no key group", `\bibitem body text here`, 0, 1},
		{"unclosed key group", `\bibitem{oops body text`, 0, 1},
		{"empty body", `\bibitem{a}\bibitem{b} second body`, 1, 1},
		{
			"good after bad",
			`\bibitem{} dropped` + "\n" + `\bibitem{kept} real body`,
			1, 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.input)
			if len(got.Blocks) != tt.wantBlocks {
				t.Errorf("Split() blocks = %d, want %d", len(got.Blocks), tt.wantBlocks)
			}
			if got.Skipped != tt.wantSkipped {
				t.Errorf("Split() skipped = %d, want %d", got.Skipped, tt.wantSkipped)
			}
		})
	}
}

func TestSplit_NoMarkers(t *testing.T) {
	got := Split("just some text without any bibliography markers")
	if len(got.Blocks) != 0 || got.Skipped != 0 {
		t.Errorf("Split() = %d blocks, %d skipped, want 0, 0", len(got.Blocks), got.Skipped)
	}
}

func TestSplitNumbered(t *testing.T) {
	input := `References
[1] J. Smith, "A paper," Journal of Things, vol. 4, pp. 10-20, 2020.
[2] D. E. Knuth, The Art of Computer Programming. Addison-Wesley, 1973.
`

	got := SplitNumbered(input)

	if len(got.Blocks) != 2 {
		t.Fatalf("SplitNumbered() returned %d blocks, want 2", len(got.Blocks))
	}
	if got.Blocks[0].Label != "ref1" || got.Blocks[1].Label != "ref2" {
		t.Errorf("labels = %q, %q", got.Blocks[0].Label, got.Blocks[1].Label)
	}
	if !strings.Contains(got.Blocks[1].Raw, "Knuth") {
		t.Errorf("second block body = %q", got.Blocks[1].Raw)
	}
}

func TestSplitNumbered_RequiresRunFromOne(t *testing.T) {
	// A stray bracketed citation mid-prose must not look like a
	// reference list.
	got := SplitNumbered("as shown in [42], the method converges")
	if len(got.Blocks) != 0 {
		t.Errorf("SplitNumbered() = %d blocks, want 0", len(got.Blocks))
	}
}

func TestSplit_OrderPreserved(t *testing.T) {
	input := `\bibitem{c} third first
\bibitem{a} alphabetically first
\bibitem{b} middle one
`
	got := Split(input)

	want := []string{"c", "a", "b"}
	if len(got.Blocks) != len(want) {
		t.Fatalf("Split() returned %d blocks, want %d", len(got.Blocks), len(want))
	}
	for i, label := range want {
		if got.Blocks[i].Label != label {
			t.Errorf("block %d label = %q, want %q", i, got.Blocks[i].Label, label)
		}
	}
}
