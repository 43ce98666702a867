package dialogue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
)

// Display caps per branch.
const (
	productSearchCap = 6
	priceInquiryCap  = 6
	defaultCap       = 4
	categoryListCap  = 8
	categoryHintCap  = 4
)

// Response is the single output of a dialogue turn. Products and
// Suggestions are never nil.
type Response struct {
	Intent      Intent                   `json:"intent"`
	Message     string                   `json:"message"`
	Products    []catalog.ProductSummary `json:"products"`
	Suggestions []string                 `json:"suggestions"`
}

func newResponse(intent Intent, message string, products []catalog.ProductSummary, suggestions ...string) Response {
	if products == nil {
		products = []catalog.ProductSummary{}
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return Response{Intent: intent, Message: message, Products: products, Suggestions: suggestions}
}

func capProducts(products []catalog.ProductSummary, n int) []catalog.ProductSummary {
	if len(products) > n {
		return products[:n]
	}
	return products
}

const (
	greetingMessage = "Hello! Welcome to our store! How can I help you find the perfect product today?"

	noMatchesMessage = "I couldn't find any products matching your search. Try being more specific or browse our categories!"

	budgetMessage = "What's your budget? I can help you find products within your price range!"

	helpMessage = `I can help you with:

• **Product Search**: Tell me what you're looking for
• **Browse Categories**: Ask to see product categories
• **Price Filtering**: Set your budget and I'll find options
• **Product Details**: Ask about specific products
• **Recommendations**: Get personalized suggestions

Just type naturally - for example: "show me laptops under $800" or "I need a birthday gift"!`

	goodbyeMessage = "Thanks for shopping with us! Feel free to come back anytime. Have a great day! 👋"

	fallbackMessage = `I'm a chatbot designed to help you with product search and information. Here are some things you can ask me:

• "Show me laptops"
• "What products are in the electronics category?"
• "Find smartphones under $500"
• "What's the price of a specific product?"

How can I assist you today?`
)

// ComposeGreeting answers a greeting without touching the catalog.
func ComposeGreeting() Response {
	return newResponse(IntentGreeting, greetingMessage, nil,
		"Browse electronics", "Show me laptops", "Find smartphones", "What's on sale?")
}

// ComposeProductSearch reports the matches for filter. The count in the
// message is the number of matches returned by the catalog, not the number
// displayed.
func ComposeProductSearch(filter catalog.SearchFilter, results []catalog.ProductSummary) Response {
	suggestions := []string{"Show me more", "Filter by price", "Browse categories", "Popular products"}
	if len(results) == 0 {
		return newResponse(IntentProductSearch, noMatchesMessage, nil, suggestions...)
	}

	message := fmt.Sprintf("I found %d products for you! Here are some great options:", len(results))
	if filter.Category != nil {
		message = fmt.Sprintf("Here are some %s products I found:", *filter.Category)
	}
	return newResponse(IntentProductSearch, message, capProducts(results, productSearchCap), suggestions...)
}

// ComposeCategoryBrowse lists the first categories and suggests a few of them.
func ComposeCategoryBrowse(categories []string) Response {
	listed := categories
	if len(listed) > categoryListCap {
		listed = listed[:categoryListCap]
	}
	suggested := categories
	if len(suggested) > categoryHintCap {
		suggested = suggested[:categoryHintCap]
	}

	message := fmt.Sprintf("We have products in these categories: %s. Which one interests you?", strings.Join(listed, ", "))
	return newResponse(IntentCategoryBrowse, message, nil, append([]string(nil), suggested...)...)
}

// ComposePriceResults reports the products found under price.
func ComposePriceResults(price float64, results []catalog.ProductSummary) Response {
	message := fmt.Sprintf("Here are products under $%s:", strconv.FormatFloat(price, 'f', -1, 64))
	return newResponse(IntentPriceInquiry, message, capProducts(results, priceInquiryCap),
		"Show cheaper options", "Browse by category")
}

// ComposeBudgetPrompt asks for a budget when the message names no price.
func ComposeBudgetPrompt() Response {
	return newResponse(IntentPriceInquiry, budgetMessage, nil, "Under $50", "Under $100", "Under $500")
}

// ComposeHelp describes what the assistant can do.
func ComposeHelp() Response {
	return newResponse(IntentHelp, helpMessage, nil,
		"Show me categories", "Find laptops", "What's popular?", "Products under $100")
}

// ComposeGoodbye always returns no products and no suggestions.
func ComposeGoodbye() Response {
	return newResponse(IntentGoodbye, goodbyeMessage, nil)
}

// ComposeDefault offers best-effort matches for an unclassified message, or
// generic guidance when there are none.
func ComposeDefault(message string, results []catalog.ProductSummary) Response {
	if len(results) == 0 {
		return newResponse(IntentDefault, fallbackMessage, nil,
			"Show me categories", "What's on sale?", "Find a gift")
	}
	return newResponse(IntentDefault,
		fmt.Sprintf("I found some products that might match '%s':", message),
		capProducts(results, defaultCap),
		"Show more like this", "Browse categories")
}
