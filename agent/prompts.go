package agent

import (
	"fmt"
	"strings"

	"slidegen/deck"
	"slidegen/template"
)

const formatSystemPrompt = `あなたはプレゼンテーション資料作成の専門家です。
与えられたスライドコンテンツを、プレゼンテーションに適した形式に整形してください。

整形の方針：
1. 内容を簡潔で分かりやすくする
2. 箇条書きや構造化された形式にする
3. 重要なポイントを明確にする
4. 元の内容の意図を保持する

元のコンテンツをそのまま返すのではなく、プレゼンテーション用に最適化してください。`

func formatUserPrompt(unit deck.SlideUnit) string {
	return fmt.Sprintf("以下のスライドコンテンツを整形してください：\n\n%s", unit.Content)
}

func chooseSystemPrompt(catalog string) string {
	return fmt.Sprintf(`あなたはプレゼンテーション資料作成の専門家です。
与えられたスライドコンテンツに最適なテンプレートを選択してください。

利用可能なテンプレート：
%s

選択の方針：
1. スライドの内容と目的に最も適したテンプレートを選ぶ
2. テンプレートの利用ケース例を参考にする
3. スライドの位置（最初、中間、最後）も考慮する

回答はJSON形式で、選択したテンプレート名と一行の理由を返してください。
例: {"template_name": "テンプレート名", "reason": "選択理由"}
JSONのみを出力し、他の内容は含めないでください。`, catalog)
}

func chooseUserPrompt(unit deck.SlideUnit) string {
	return fmt.Sprintf(`以下のスライドコンテンツに最適なテンプレートを選択してください：

スライド番号: %d
コンテンツ:
%s`, unit.Ordinal, unit.Content)
}

func correctSystemPrompt(validNames []string) string {
	return fmt.Sprintf(`あなたはプレゼンテーション資料作成の専門家です。
先ほど選択されたテンプレート名は存在しませんでした。
以下の有効なテンプレート名の中から、正しい名前を一つだけ選んでください。

有効なテンプレート名：
- %s

回答は選択したテンプレート名のみを返してください。他の内容は含めないでください。`, strings.Join(validNames, "\n- "))
}

func correctUserPrompt(invalidName string) string {
	return fmt.Sprintf("無効なテンプレート名: %s\n上記リストから最も近いテンプレート名を一つ返してください。", invalidName)
}

func assignSystemPrompt(tmpl template.Descriptor) string {
	var objects []string
	for _, obj := range tmpl.Objects {
		objects = append(objects, fmt.Sprintf("- %s: %s", obj.Name, obj.Role))
	}

	return fmt.Sprintf(`あなたはプレゼンテーション資料作成の専門家です。
与えられたスライドコンテンツを、指定されたテンプレートの各オブジェクトに適切に割り当ててください。

テンプレート: %s
オブジェクト構成:
%s

回答はJSON形式で、各オブジェクト名をキーとし、割り当てるテキストを値として返してください。
例: {"title": "スライドタイトル", "main_text": "本文内容"}
JSONのみを出力し、他の内容は含めないでください。`, tmpl.TemplateName, strings.Join(objects, "\n"))
}

func assignUserPrompt(unit deck.SlideUnit) string {
	return fmt.Sprintf("以下のスライドコンテンツを、テンプレートの各オブジェクトに割り当ててください：\n\n%s", unit.Content)
}
