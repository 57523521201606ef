package stories

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// imgSrcPattern はHTMLパースが失敗した場合のフォールバック抽出用。
var imgSrcPattern = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)

// firstImageSrc は本文HTMLから最初の<img>タグのsrc属性を返す。
// 見つからない場合は空文字列を返す。フィードの本文は壊れたHTMLで
// あることが多いため、トークナイザが失敗しても正規表現で再試行する。
func firstImageSrc(content string) string {
	if content == "" {
		return ""
	}

	tokenizer := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		token := tokenizer.Token()
		if token.Data != "img" {
			continue
		}
		for _, attr := range token.Attr {
			if attr.Key == "src" && attr.Val != "" {
				return attr.Val
			}
		}
	}

	if m := imgSrcPattern.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}
