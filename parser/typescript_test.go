package parser

import (
	"testing"

	"trespass/hierarchy"
)

const tsSample = `
class BankAccount {
  #ledger = [];
  private balance: number = 0;
  protected owner: string = "";

  public deposit(amount: number): void {
    this.balance += amount;
  }

  private getBalance(): number {
    return this.balance;
  }
}

class SavingsAccount extends BankAccount {
  addInterest(): void {
    this.getBalance();
  }
}

const acct = new SavingsAccount();
acct.deposit(10);
acct.getBalance();
`

func TestTypeScriptExtractor_Visibility(t *testing.T) {
	file := parseSample(t, "account.ts", tsSample)

	bank := findClass(t, file, "BankAccount")
	tests := []struct {
		member string
		kind   hierarchy.MemberKind
		vis    hierarchy.Visibility
	}{
		{"ledger", hierarchy.Field, hierarchy.Private}, // #ledger
		{"balance", hierarchy.Field, hierarchy.Private},
		{"owner", hierarchy.Field, hierarchy.Protected},
		{"deposit", hierarchy.Method, hierarchy.Public},
		{"getBalance", hierarchy.Method, hierarchy.Private},
	}
	for _, tt := range tests {
		m := findMember(t, bank, tt.member)
		if m.Kind != tt.kind {
			t.Errorf("%s: expected kind %s, got %s", tt.member, tt.kind, m.Kind)
		}
		if m.Visibility != tt.vis {
			t.Errorf("%s: expected %s, got %s", tt.member, tt.vis, m.Visibility)
		}
	}

	savings := findClass(t, file, "SavingsAccount")
	if savings.Parent != "BankAccount" {
		t.Errorf("Expected SavingsAccount extends BankAccount, got %q", savings.Parent)
	}
	if findMember(t, savings, "addInterest").Visibility != hierarchy.Public {
		t.Error("modifier-less method should default to public")
	}
}

func TestTypeScriptExtractor_BindingsAndAccesses(t *testing.T) {
	file := parseSample(t, "account.ts", tsSample)

	var bound bool
	for _, b := range file.Bindings {
		if b.Var == "acct" && b.Class == "SavingsAccount" {
			bound = true
		}
	}
	if !bound {
		t.Errorf("Expected binding acct -> SavingsAccount, got %v", file.Bindings)
	}

	if !hasAccess(file, "acct", "getBalance") {
		t.Error("acct.getBalance() access not extracted")
	}
	if !hasAccess(file, "this", "balance") {
		t.Error("this.balance access not extracted")
	}

	for _, a := range file.Accesses {
		if a.Receiver == "acct" && a.Enclosing != "" {
			t.Errorf("top-level access should have no enclosing class, got %q", a.Enclosing)
		}
		if a.Receiver == "this" && a.Member == "getBalance" && a.Enclosing != "SavingsAccount" {
			t.Errorf("this.getBalance() should be enclosed by SavingsAccount, got %q", a.Enclosing)
		}
	}
}

func TestJavaScriptExtractor_HashPrivate(t *testing.T) {
	file := parseSample(t, "counter.js", `
class Counter {
  #count = 0;

  increment() {
    this.#count += 1;
  }
}

class Stepper extends Counter {}

const c = new Counter();
c.increment();
`)

	counter := findClass(t, file, "Counter")
	count := findMember(t, counter, "count")
	if count.Visibility != hierarchy.Private {
		t.Errorf("#count should be private, got %s", count.Visibility)
	}
	if findMember(t, counter, "increment").Visibility != hierarchy.Public {
		t.Error("increment should be public")
	}

	stepper := findClass(t, file, "Stepper")
	if stepper.Parent != "Counter" {
		t.Errorf("Expected Stepper extends Counter, got %q", stepper.Parent)
	}

	// The hash is stripped from access sites too.
	if !hasAccess(file, "this", "count") {
		t.Errorf("this.#count access not extracted, got %v", file.Accesses)
	}
}
