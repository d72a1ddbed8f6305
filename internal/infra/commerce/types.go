package commerce

// Wire shapes of the Elastic Path resources this bot reads. Responses are
// treated as opaque pass-through except for the fields below.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type priceFields struct {
	Amount    int    `json:"amount"`
	Currency  string `json:"currency"`
	Formatted string `json:"formatted"`
}

type productResource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Weight      struct {
		Kg float64 `json:"kg"`
	} `json:"weight"`
	Meta struct {
		DisplayPrice struct {
			WithTax priceFields `json:"with_tax"`
		} `json:"display_price"`
		Stock struct {
			Level int `json:"level"`
		} `json:"stock"`
	} `json:"meta"`
	Relationships struct {
		MainImage struct {
			Data *struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"main_image"`
	} `json:"relationships"`
}

type cartItemResource struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Meta        struct {
		DisplayPrice struct {
			WithTax struct {
				Unit  priceFields `json:"unit"`
				Value priceFields `json:"value"`
			} `json:"with_tax"`
		} `json:"display_price"`
	} `json:"meta"`
}

type cartResource struct {
	ID   string `json:"id"`
	Meta struct {
		DisplayPrice struct {
			WithTax priceFields `json:"with_tax"`
		} `json:"display_price"`
	} `json:"meta"`
}

type fileResource struct {
	Link struct {
		Href string `json:"href"`
	} `json:"link"`
}

type customerResource struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type errorBody struct {
	Errors []struct {
		Status int    `json:"status"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}
