package guard

import "testing"

type fakeSession struct {
	loading       bool
	authenticated bool
}

func (f *fakeSession) Loading() bool         { return f.loading }
func (f *fakeSession) IsAuthenticated() bool { return f.authenticated }

func TestNoDecisionWhileLoading(t *testing.T) {
	sess := &fakeSession{loading: true, authenticated: true}
	g := New(sess)
	d := g.Evaluate("candidatos")
	if d.State != StateLoading {
		t.Fatalf("expected loading state, got %s", d.State)
	}
	if d.RedirectToLogin {
		t.Fatal("loading must never redirect")
	}
}

func TestUnauthenticatedRedirectsAndCaptures(t *testing.T) {
	sess := &fakeSession{}
	g := New(sess)
	d := g.Evaluate("trivias")
	if d.State != StateUnauthenticated || !d.RedirectToLogin {
		t.Fatalf("expected redirect decision, got %+v", d)
	}
	if d.From != "trivias" {
		t.Fatalf("expected captured page trivias, got %q", d.From)
	}
	if g.CapturedFrom() != "trivias" {
		t.Fatalf("expected guard to remember the page, got %q", g.CapturedFrom())
	}
}

func TestAuthenticatedAdmits(t *testing.T) {
	sess := &fakeSession{authenticated: true}
	g := New(sess)
	d := g.Evaluate("partidos")
	if d.State != StateAuthenticated || d.RedirectToLogin {
		t.Fatalf("expected admission, got %+v", d)
	}
}

func TestLogoutRevokesOnNextNavigation(t *testing.T) {
	sess := &fakeSession{authenticated: true}
	g := New(sess)
	if d := g.Evaluate("administradores"); d.State != StateAuthenticated {
		t.Fatalf("precondition: expected admission, got %s", d.State)
	}
	// Logout between navigations.
	sess.authenticated = false
	d := g.Evaluate("administradores")
	if d.State != StateUnauthenticated || !d.RedirectToLogin {
		t.Fatalf("expected revocation after logout, got %+v", d)
	}
}

func TestSettlingAfterLoadRedirectsWhenUnauthenticated(t *testing.T) {
	sess := &fakeSession{loading: true}
	g := New(sess)
	if d := g.Evaluate("dashboard"); d.State != StateLoading {
		t.Fatalf("expected loading first, got %s", d.State)
	}
	sess.loading = false
	d := g.Evaluate("dashboard")
	if !d.RedirectToLogin {
		t.Fatalf("expected redirect once settled, got %+v", d)
	}
}

func TestClearCapturedFrom(t *testing.T) {
	g := New(&fakeSession{})
	g.Evaluate("recursos")
	g.ClearCapturedFrom()
	if g.CapturedFrom() != "" {
		t.Fatal("expected captured page cleared")
	}
}
