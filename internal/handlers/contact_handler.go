package handlers

import (
	"net/http"

	"contacts_backend/internal/services"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	*BaseHandler
	contactService services.ContactService
}

func NewContactHandler(base *BaseHandler, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
	}
}

// ListContacts godoc
// @Summary Список контактов
// @Description С параметром q выполняется поиск по имени, фамилии и email; иначе применяются фильтры по полям.
// @Description Браузер получает HTML, клиент с Accept: application/json - JSON.
// @Tags contacts
// @Produce json
// @Produce html
// @Security BearerAuth
// @Param q query string false "Строка поиска"
// @Param first_name query string false "Фильтр по имени"
// @Param last_name query string false "Фильтр по фамилии"
// @Param email query string false "Фильтр по email"
// @Success 200 {array} dto.ContactResponse
// @Router /contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var query dto.ContactListQuery
	if err := h.BindQuery(c, &query); err != nil {
		h.RenderError(c, "contacts.html", gin.H{"title": "My contacts"}, err)
		return
	}

	contacts, err := h.contactService.List(c.Request.Context(), h.GetDB(c), userID, &query)
	if err != nil {
		h.RenderError(c, "contacts.html", gin.H{"title": "My contacts", "q": query.Q}, err)
		return
	}

	list := dto.NewContactList(contacts)
	if WantsJSON(c) {
		c.JSON(http.StatusOK, list)
		return
	}
	h.Render(c, http.StatusOK, "contacts.html", gin.H{
		"title":    "My contacts",
		"q":        query.Q,
		"contacts": list,
	})
}

// GET /contacts/add
func (h *ContactHandler) AddContactPage(c *gin.Context) {
	h.Render(c, http.StatusOK, "contact_form.html", gin.H{
		"title": "New contact",
		"form":  map[string]string{},
	})
}

// AddContact godoc
// @Summary Создать контакт
// @Description Email контакта уникален в пределах адресной книги владельца
// @Tags contacts
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param contact body dto.CreateContactRequest true "Контакт"
// @Success 201 {object} dto.ContactResponse
// @Success 303 "Редирект на /contacts (форма)"
// @Failure 400 {object} apperrors.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} apperrors.ErrorResponse "Контакт с таким email уже есть"
// @Router /contacts/add [post]
func (h *ContactHandler) AddContact(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateContactRequest
	if err := h.Bind(c, &req); err != nil {
		h.RenderError(c, "contact_form.html", gin.H{"title": "New contact", "form": createForm(&req)}, err)
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.RenderError(c, "contact_form.html", gin.H{"title": "New contact", "form": createForm(&req)}, err)
		return
	}

	if WantsJSON(c) {
		c.JSON(http.StatusCreated, dto.NewContactResponse(contact))
		return
	}
	Redirect(c, "/contacts")
}

// GET /contacts/edit/:id
// Чужой или удаленный контакт отправляет обратно к списку.
func (h *ContactHandler) EditContactPage(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	contact, err := h.contactService.Get(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrContactNotFound) {
			Redirect(c, "/contacts")
			return
		}
		h.RenderError(c, "contact_form.html", gin.H{"title": "Edit contact"}, err)
		return
	}

	resp := dto.NewContactResponse(contact)
	form := map[string]string{
		"first_name": resp.FirstName,
		"last_name":  resp.LastName,
		"email":      resp.Email,
		"phone":      resp.Phone,
		"note":       resp.Note,
	}
	if resp.Birthday != nil {
		form["birthday"] = *resp.Birthday
	}

	h.Render(c, http.StatusOK, "contact_form.html", gin.H{
		"title":      "Edit contact",
		"contact_id": contact.ID,
		"form":       form,
	})
}

// EditContact godoc
// @Summary Изменить контакт
// @Description Частичное обновление: переданные поля заменяются, пустой birthday очищает дату
// @Tags contacts
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID контакта"
// @Param contact body dto.UpdateContactRequest true "Изменяемые поля"
// @Success 200 {object} dto.ContactResponse
// @Success 303 "Редирект на /contacts (форма)"
// @Failure 404 {object} apperrors.ErrorResponse "Контакт не найден"
// @Failure 409 {object} apperrors.ErrorResponse "Контакт с таким email уже есть"
// @Router /contacts/edit/{id} [post]
func (h *ContactHandler) EditContact(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")
	page := gin.H{"title": "Edit contact", "contact_id": id}

	var req dto.UpdateContactRequest
	if err := h.Bind(c, &req); err != nil {
		page["form"] = updateForm(&req)
		h.RenderError(c, "contact_form.html", page, err)
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), h.GetDB(c), userID, id, &req)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrContactNotFound) && !WantsJSON(c) {
			Redirect(c, "/contacts")
			return
		}
		page["form"] = updateForm(&req)
		h.RenderError(c, "contact_form.html", page, err)
		return
	}

	if WantsJSON(c) {
		c.JSON(http.StatusOK, dto.NewContactResponse(contact))
		return
	}
	Redirect(c, "/contacts")
}

// DeleteContact godoc
// @Summary Удалить контакт
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID контакта"
// @Success 204 "Удален (JSON-клиент)"
// @Success 303 "Редирект на /contacts"
// @Failure 404 {object} apperrors.ErrorResponse "Контакт не найден"
// @Router /contacts/delete/{id} [get]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	err := h.contactService.Delete(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if WantsJSON(c) {
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
		return
	}

	// для браузера отсутствующий контакт не ошибка: после удаления его и так нет
	if err != nil && !apperrors.Is(err, apperrors.ErrContactNotFound) {
		h.RenderError(c, "contacts.html", gin.H{"title": "My contacts"}, err)
		return
	}
	Redirect(c, "/contacts")
}

// UpcomingBirthdays godoc
// @Summary Ближайшие дни рождения
// @Description Контакты, чей день рождения попадает в окно [сегодня, сегодня+days] включительно
// @Tags contacts
// @Produce json
// @Produce html
// @Security BearerAuth
// @Param days query int false "Размер окна в днях (0..366, по умолчанию 7)"
// @Success 200 {array} dto.UpcomingBirthday
// @Failure 400 {object} apperrors.ErrorResponse "Недопустимое окно"
// @Router /contacts/birthdays/upcoming [get]
func (h *ContactHandler) UpcomingBirthdays(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var query dto.UpcomingBirthdaysQuery
	if err := h.BindQuery(c, &query); err != nil {
		h.RenderError(c, "birthdays.html", gin.H{"title": "Upcoming birthdays", "days": c.Query("days")}, err)
		return
	}

	matches, err := h.contactService.UpcomingBirthdays(c.Request.Context(), h.GetDB(c), userID, query.Days)
	if err != nil {
		h.RenderError(c, "birthdays.html", gin.H{"title": "Upcoming birthdays", "days": c.Query("days")}, err)
		return
	}

	list := make([]dto.UpcomingBirthday, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		list = append(list, dto.UpcomingBirthday{
			ContactResponse: dto.NewContactResponse(&m.Contact),
			NextBirthday:    m.Next.Format(dto.DateLayout),
			DaysUntil:       m.DaysUntil,
			TurningAge:      m.TurningAge,
		})
	}

	if WantsJSON(c) {
		c.JSON(http.StatusOK, list)
		return
	}

	days := services.DefaultBirthdayWindow
	if query.Days != nil {
		days = *query.Days
	}
	h.Render(c, http.StatusOK, "birthdays.html", gin.H{
		"title":     "Upcoming birthdays",
		"days":      days,
		"birthdays": list,
	})
}

func createForm(req *dto.CreateContactRequest) map[string]string {
	return map[string]string{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"email":      req.Email,
		"phone":      req.Phone,
		"birthday":   req.Birthday,
		"note":       req.Note,
	}
}

func updateForm(req *dto.UpdateContactRequest) map[string]string {
	form := map[string]string{}
	set := func(key string, v *string) {
		if v != nil {
			form[key] = *v
		}
	}
	set("first_name", req.FirstName)
	set("last_name", req.LastName)
	set("email", req.Email)
	set("phone", req.Phone)
	set("birthday", req.Birthday)
	set("note", req.Note)
	return form
}
