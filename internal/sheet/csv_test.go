package sheet

import (
	"reflect"
	"testing"
)

func TestParseLine_SimpleFields(t *testing.T) {
	got := ParseLine("a,b,c")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLine = %v, want %v", got, want)
	}
}

func TestParseLine_QuotedComma(t *testing.T) {
	// クォート内のカンマはリテラル
	got := ParseLine(`a,"b,c",d`)
	want := []string{"a", "b,c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLine = %v, want %v", got, want)
	}
}

func TestParseLine_EscapedQuote(t *testing.T) {
	// "" はリテラルのダブルクォート1文字
	got := ParseLine(`a,"b""c",d`)
	want := []string{"a", `b"c`, "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLine = %v, want %v", got, want)
	}
}

func TestParseLine_EmptyFields(t *testing.T) {
	got := ParseLine("a,,c,")
	want := []string{"a", "", "c", ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLine = %v, want %v", got, want)
	}
}

func TestParseLine_SingleField(t *testing.T) {
	got := ParseLine("only")
	want := []string{"only"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLine = %v, want %v", got, want)
	}
}

func TestParseLine_EmptyLine(t *testing.T) {
	// 空行は空フィールド1個になる（最終フィールドは常に出力される）
	got := ParseLine("")
	want := []string{""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLine = %v, want %v", got, want)
	}
}

func TestParseLine_WhitespacePreserved(t *testing.T) {
	// パーサー自体はトリムしない。トリムはスキーマのポリシー
	got := ParseLine(" a , b ")
	want := []string{" a ", " b "}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLine = %v, want %v", got, want)
	}
}

func TestParseLine_MalformedQuoting_DegradesGracefully(t *testing.T) {
	// 閉じられていないクォートでもパニックせず、状態機械の結果を返す
	got := ParseLine(`a,"unterminated,b`)
	want := []string{"a", "unterminated,b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLine = %v, want %v", got, want)
	}
}

func TestParseLine_QuotedFieldWithNewlineEscapes(t *testing.T) {
	// フィールド全体がクォートされているケース
	got := ParseLine(`"Tan's ""Famous"" Laksa, est. 1985",Katong`)
	want := []string{`Tan's "Famous" Laksa, est. 1985`, "Katong"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLine = %v, want %v", got, want)
	}
}

func TestSplitRows_DropsHeaderAndBlankLines(t *testing.T) {
	csv := "id,name\n\n1,Alpha\n   \n2,Beta\n"
	got := SplitRows(csv)
	want := []string{"1,Alpha", "2,Beta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitRows = %v, want %v", got, want)
	}
}

func TestSplitRows_HeaderOnly_ReturnsNil(t *testing.T) {
	if got := SplitRows("id,name\n"); got != nil {
		t.Errorf("SplitRows = %v, want nil", got)
	}
}

func TestSplitRows_Empty_ReturnsNil(t *testing.T) {
	if got := SplitRows(""); got != nil {
		t.Errorf("SplitRows = %v, want nil", got)
	}
}

func TestSplitRows_StripsCarriageReturns(t *testing.T) {
	csv := "id,name\r\n1,Alpha\r\n"
	got := SplitRows(csv)
	want := []string{"1,Alpha"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitRows = %v, want %v", got, want)
	}
}
