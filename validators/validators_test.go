package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"partsapi/models"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("a@x.com"))
	assert.Error(t, ValidateEmail("a@x"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidateRole(t *testing.T) {
	assert.NoError(t, ValidateRole(""))
	assert.NoError(t, ValidateRole(models.RoleAdmin))
	assert.NoError(t, ValidateRole(models.RoleCustomer))
	assert.Error(t, ValidateRole("root"))
}

func TestValidateOrder(t *testing.T) {
	valid := models.Order{Email: "a@x.com", ProductName: "Bolt", Quantity: 5, Price: 10}
	assert.NoError(t, ValidateOrder(&valid))

	t.Run("Bad email", func(t *testing.T) {
		o := valid
		o.Email = "nope"
		assert.Error(t, ValidateOrder(&o))
	})

	t.Run("Blank product name", func(t *testing.T) {
		o := valid
		o.ProductName = "   "
		assert.Error(t, ValidateOrder(&o))
	})

	t.Run("Zero quantity", func(t *testing.T) {
		o := valid
		o.Quantity = 0
		assert.Error(t, ValidateOrder(&o))
	})

	t.Run("Negative price", func(t *testing.T) {
		o := valid
		o.Price = -1
		assert.Error(t, ValidateOrder(&o))
	})

	t.Run("Bad phone", func(t *testing.T) {
		o := valid
		o.Phone = "12-34"
		assert.Error(t, ValidateOrder(&o))
	})
}

func TestValidateProduct(t *testing.T) {
	assert.NoError(t, ValidateProduct(&models.Product{Name: "Bolt", Price: 0.5, Quantity: 10}))
	assert.Error(t, ValidateProduct(&models.Product{Price: 1}))
	assert.Error(t, ValidateProduct(&models.Product{Name: "Bolt", Quantity: -1}))
}

func TestValidateReview(t *testing.T) {
	assert.NoError(t, ValidateReview(&models.Review{Text: "Solid parts", Rating: 5}))
	assert.Error(t, ValidateReview(&models.Review{Text: ""}))
	assert.Error(t, ValidateReview(&models.Review{Text: "ok", Rating: 9}))
}
