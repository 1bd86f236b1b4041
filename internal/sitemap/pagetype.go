// Package sitemap classifies the pages of a site by the role they play for
// a chat agent and orders them by placement priority.
package sitemap

import (
	"net/url"
	"sort"
	"strings"

	"github.com/jonathan/url-analyzer/internal/keywords"
	"github.com/jonathan/url-analyzer/internal/types"
)

// pathPatterns are checked in order; the first page type with a matching
// fragment wins. TopPage and Other are handled separately.
var pathPatterns = []struct {
	pageType  types.PageType
	fragments []string
}{
	{types.PageTypeFAQ, []string{"/faq", "/qa", "/q-a", "/help", "/support", "/questions", "よくある質問"}},
	{types.PageTypeContact, []string{"/contact", "/inquiry", "/toiawase", "お問い合わせ", "問い合わせ", "/form"}},
	{types.PageTypeLogin, []string{"/login", "/signin", "/sign-in", "/mypage", "/account", "/member", "ログイン"}},
	{types.PageTypeProductDetail, []string{"/product/", "/products/", "/item/", "/items/", "/goods/", "/dp/", "/detail", "商品詳細"}},
	{types.PageTypeCategory, []string{"/category", "/categories", "/collections", "/catalog", "/products", "カテゴリ"}},
	{types.PageTypeCart, []string{"/cart", "/basket", "/bag", "カート"}},
	{types.PageTypeCheckout, []string{"/checkout", "/order", "/payment", "/purchase", "購入"}},
	{types.PageTypeStore, []string{"/store", "/stores", "/shops", "/shop-list", "店舗"}},
	{types.PageTypeBlogArticle, []string{"/blog", "/column", "/article", "/news", "/media", "/posts", "/magazine", "コラム", "ブログ"}},
	{types.PageTypeCompanyInfo, []string{"/about", "/company", "/corporate", "/profile", "/ir/", "/recruit", "/careers", "会社概要", "企業情報"}},
}

var pathTable = func() *keywords.Table {
	groups := make([]keywords.Group, 0, len(pathPatterns))
	for _, p := range pathPatterns {
		groups = append(groups, keywords.Group{Name: string(p.pageType), Terms: p.fragments})
	}
	return keywords.NewTable(groups...)
}()

type pageInfo struct {
	role          string
	chatAgentRole string
	priority      types.Priority
}

// pageTable must cover every value in types.AllPageTypes.
var pageTable = map[types.PageType]pageInfo{
	types.PageTypeFAQ: {
		role:          "よくある質問への回答ページ",
		chatAgentRole: "FAQで解決しない疑問に即答し、問い合わせ前の離脱を防ぐ",
		priority:      types.PriorityHigh,
	},
	types.PageTypeContact: {
		role:          "問い合わせ・資料請求の受付ページ",
		chatAgentRole: "フォーム入力を補助し、送信前の離脱を防ぐ",
		priority:      types.PriorityHigh,
	},
	types.PageTypeLogin: {
		role:          "会員ログイン・マイページ",
		chatAgentRole: "ログインやパスワードのトラブルをその場で解決する",
		priority:      types.PriorityHigh,
	},
	types.PageTypeProductDetail: {
		role:          "個別の商品・サービス詳細ページ",
		chatAgentRole: "仕様・在庫・価格の質問に答えて購入を後押しする",
		priority:      types.PriorityHigh,
	},
	types.PageTypeCategory: {
		role:          "商品一覧・カテゴリページ",
		chatAgentRole: "希望条件を聞き取り、最適な商品へ案内する",
		priority:      types.PriorityMid,
	},
	types.PageTypeCart: {
		role:          "カートページ",
		chatAgentRole: "送料や支払い方法の不安を解消し、カゴ落ちを防ぐ",
		priority:      types.PriorityHigh,
	},
	types.PageTypeCheckout: {
		role:          "購入・決済手続きページ",
		chatAgentRole: "入力エラーや決済の疑問を解消し、購入完了まで導く",
		priority:      types.PriorityHigh,
	},
	types.PageTypeStore: {
		role:          "店舗情報ページ",
		chatAgentRole: "最寄り店舗・営業時間・在庫の確認を案内する",
		priority:      types.PriorityMid,
	},
	types.PageTypeBlogArticle: {
		role:          "記事・コラムなどの集客コンテンツ",
		chatAgentRole: "記事の関心に合わせて関連商品や資料請求へ誘導する",
		priority:      types.PriorityLow,
	},
	types.PageTypeCompanyInfo: {
		role:          "会社概要・採用などの企業情報ページ",
		chatAgentRole: "企業に関する質問に答え、信頼感を高める",
		priority:      types.PriorityLow,
	},
	types.PageTypeTopPage: {
		role:          "サイトの入口となるトップページ",
		chatAgentRole: "訪問目的を聞き取り、適切なページへ振り分ける",
		priority:      types.PriorityMid,
	},
	types.PageTypeOther: {
		role:          "その他のページ",
		chatAgentRole: "閲覧内容に応じて一般的な質問に対応する",
		priority:      types.PriorityLow,
	},
}

// DetectPageType classifies a URL path. Matching is case-insensitive
// substring matching on the decoded path.
func DetectPageType(path string) types.PageType {
	p := strings.ToLower(path)
	if matched := pathTable.Match(p); len(matched) > 0 {
		return types.PageType(matched[0])
	}
	if p == "/" || p == "" {
		return types.PageTypeTopPage
	}
	return types.PageTypeOther
}

// LookupRole describes what the page is for.
func LookupRole(t types.PageType) string {
	return lookup(t).role
}

// LookupChatAgentRole describes what a chat agent should do on the page.
func LookupChatAgentRole(t types.PageType) string {
	return lookup(t).chatAgentRole
}

// LookupPriority returns the placement tier of the page type.
func LookupPriority(t types.PageType) types.Priority {
	return lookup(t).priority
}

func lookup(t types.PageType) pageInfo {
	if info, ok := pageTable[t]; ok {
		return info
	}
	return pageTable[types.PageTypeOther]
}

// NewEntry builds an entry for a URL of the given page type.
func NewEntry(rawURL string, t types.PageType, confidence types.Confidence) types.SiteURLEntry {
	info := lookup(t)
	return types.SiteURLEntry{
		URL:           rawURL,
		PageType:      t,
		Role:          info.role,
		ChatAgentRole: info.chatAgentRole,
		Priority:      info.priority,
		Confidence:    confidence,
	}
}

// PathOf returns the decoded path of rawURL, or rawURL itself when it
// cannot be parsed.
func PathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

// ClassifyPath classifies a URL from its path alone.
func ClassifyPath(rawURL string) types.SiteURLEntry {
	return NewEntry(rawURL, DetectPageType(PathOf(rawURL)), types.ConfidenceMedium)
}

// SortByPriority orders entries high, mid, low, keeping the input order within a tier.
func SortByPriority(entries []types.SiteURLEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority.Rank() < entries[j].Priority.Rank()
	})
}
