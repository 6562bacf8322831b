package main

import (
	"context"
	"fmt"
	"os"

	session "github.com/ussdautopay/go-session"
)

func (a *App) cmdLogin(ctx context.Context) error {
	email, err := promptText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := promptPassword("Password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.manager.Login(ctx, email, password); err != nil {
		return err
	}

	state := a.manager.Current()
	fmt.Printf("signed in as %s (%s)\n", state.User.Email, state.User.Type())
	return nil
}

func (a *App) cmdRegister(ctx context.Context) error {
	first, err := promptText(a.reader, "First name", os.Stdout)
	if err != nil {
		return err
	}
	last, err := promptText(a.reader, "Last name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := promptText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := promptPassword("Password", os.Stdout)
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}

	payload := session.RegistrationPayload{
		FirstName:       first,
		LastName:        last,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	}
	if err := payload.Validate(); err != nil {
		for field, msg := range session.FormatValidationErrorToMap(err) {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		return fmt.Errorf("registration rejected")
	}

	if err := a.manager.Register(ctx, session.RegisterData{
		Email:     email,
		Password:  password,
		FirstName: first,
		LastName:  last,
	}); err != nil {
		return err
	}

	fmt.Printf("welcome, %s\n", a.manager.Current().User.FullName())
	return nil
}

func (a *App) cmdWhoami(state session.State) error {
	if !state.Authenticated() {
		fmt.Println("not signed in")
		return nil
	}

	u := state.User
	fmt.Printf("%s\n", u.FullName())
	fmt.Printf("  email: %s\n", u.Email)
	fmt.Printf("  tier:  %s\n", u.Type())
	if u.Phone != "" {
		fmt.Printf("  phone: %s\n", u.Phone)
	}
	return nil
}

func (a *App) cmdProfile(ctx context.Context) error {
	if !a.manager.Current().Authenticated() {
		return fmt.Errorf("sign in first")
	}

	fmt.Println("leave a field empty to keep its current value")

	first, err := promptText(a.reader, "First name", os.Stdout)
	if err != nil {
		return err
	}
	last, err := promptText(a.reader, "Last name", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := promptText(a.reader, "Phone", os.Stdout)
	if err != nil {
		return err
	}

	update := session.ProfileUpdate{}
	if first != "" {
		update.FirstName = &first
	}
	if last != "" {
		update.LastName = &last
	}
	if phone != "" {
		normalized, err := session.NormalizePhone(phone, "")
		if err != nil {
			return err
		}
		update.Phone = &normalized
	}

	if update.IsEmpty() {
		fmt.Println("nothing to update")
		return nil
	}

	if err := a.manager.UpdateProfile(ctx, update); err != nil {
		return err
	}

	fmt.Printf("profile saved for %s\n", a.manager.Current().User.FullName())
	return nil
}

func (a *App) cmdPasswd(ctx context.Context) error {
	if !a.manager.Current().Authenticated() {
		return fmt.Errorf("sign in first")
	}

	current, err := promptPassword("Current password", os.Stdout)
	if err != nil {
		return err
	}
	updated, err := promptPassword("New password", os.Stdout)
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm new password", os.Stdout)
	if err != nil {
		return err
	}
	if updated != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := a.manager.ChangePassword(ctx, current, updated); err != nil {
		return err
	}

	fmt.Println("password updated")
	return nil
}

func (a *App) cmdInfluencers(ctx context.Context) error {
	influencers, err := a.client.Influencers().List(ctx)
	if err != nil {
		return err
	}

	for _, inf := range influencers {
		fmt.Printf("%4d  %-24s *%s#  %s\n", inf.ID, inf.Name, inf.Shortcode, inf.Status)
	}
	return nil
}

func (a *App) cmdSubscriptions(ctx context.Context) error {
	if !a.manager.Current().Authenticated() {
		return fmt.Errorf("sign in first")
	}

	subs, err := a.client.Subscribers().List(ctx)
	if err != nil {
		return err
	}

	if len(subs) == 0 {
		fmt.Println("no subscriptions")
		return nil
	}

	for _, sub := range subs {
		status := "active"
		if !sub.IsActive {
			status = "paused"
		}
		fmt.Printf("%4d  creator %-4d %s %8d %-8s %s\n",
			sub.ID, sub.InfluencerID, sub.FanPhone, sub.Amount, sub.Frequency, status)
	}
	return nil
}

func (a *App) cmdSubscribe(ctx context.Context) error {
	if !a.manager.Current().Authenticated() {
		return fmt.Errorf("sign in first")
	}

	idText, err := promptText(a.reader, "Creator id", os.Stdout)
	if err != nil {
		return err
	}
	var influencerID int64
	if _, err := fmt.Sscanf(idText, "%d", &influencerID); err != nil {
		return fmt.Errorf("creator id must be a number")
	}

	phone, err := promptText(a.reader, "Phone to charge", os.Stdout)
	if err != nil {
		return err
	}

	amountText, err := promptText(a.reader, "Amount", os.Stdout)
	if err != nil {
		return err
	}
	var amount float64
	if _, err := fmt.Sscanf(amountText, "%g", &amount); err != nil {
		return fmt.Errorf("amount must be a number")
	}

	frequency, err := promptText(a.reader, "Frequency (daily/weekly/monthly)", os.Stdout)
	if err != nil {
		return err
	}

	payload := session.SubscribePayload{
		InfluencerID: influencerID,
		Phone:        phone,
		Amount:       amount,
		Frequency:    frequency,
	}
	if err := payload.Validate(); err != nil {
		for field, msg := range session.FormatValidationErrorToMap(err) {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		return fmt.Errorf("subscription rejected")
	}

	sub, err := a.client.Subscribers().Create(ctx, session.SubscriptionInput{
		InfluencerID: influencerID,
		FanPhone:     phone,
		Amount:       amount,
		Frequency:    frequency,
	})
	if err != nil {
		return err
	}

	fmt.Printf("subscription %d active, next charge %v\n", sub.ID, sub.NextChargeAt)
	return nil
}
